package model

// RawRecord is one row of the long-format telemetry export. Each row carries
// exactly one named channel value for a (timestamp, vehicle) pair.
type RawRecord struct {
	Timestamp     string
	VehicleID     string
	VehicleNumber string
	Lap           string
	Name          string
	Value         string
}

// TelemetrySample is the dense per-instant record assembled from all raw
// records sharing a (timestamp, vehicle) key. X/Z are planar offsets in
// meters relative to the first sample of the session; Y stays 0 until an
// elevation channel is supplied by the source.
type TelemetrySample struct {
	Timestamp     string `json:"timestamp"`
	VehicleID     string `json:"vehicle_id"`
	VehicleNumber int    `json:"vehicle_number"`
	Lap           int    `json:"lap"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`

	Speed float64 `json:"speed,omitempty"` // km/h
	Gear  float64 `json:"gear,omitempty"`
	RPM   float64 `json:"rpm,omitempty"` // nmot

	Throttle            float64 `json:"throttle,omitempty"`    // ath (0-100)
	AcceleratorPosition float64 `json:"accelerator,omitempty"` // aps (0-100)
	BrakeFront          float64 `json:"brakeFront,omitempty"`  // pbrake_f (bar)
	BrakeRear           float64 `json:"brakeRear,omitempty"`   // pbrake_r (bar)

	AccelForward  float64 `json:"accelForward,omitempty"`  // accx_can (g)
	AccelLateral  float64 `json:"accelLateral,omitempty"`  // accy_can (g)
	SteeringAngle float64 `json:"steeringAngle,omitempty"` // degrees

	LapDistance float64 `json:"lapDistance,omitempty"` // meters

	// presence flags for the channels where "absent" and "zero" must be
	// distinguished (throttle fallback in the scoring)
	HasThrottle            bool `json:"-"`
	HasAcceleratorPosition bool `json:"-"`
}
