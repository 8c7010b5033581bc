package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// sampleBuilder accumulates the named channels of one (timestamp, vehicle)
// group until the group is materialized into a TelemetrySample.
type sampleBuilder struct {
	timestamp     string
	vehicleID     string
	vehicleNumber string
	lap           string

	lat, lon       float64
	hasLat, hasLon bool

	speed, gear, rpm           float64
	throttle, accelerator      float64
	hasThrottle, hasAccelerator bool
	brakeFront, brakeRear      float64
	accelForward, accelLateral float64
	steeringAngle, lapDistance float64
}

func newSampleBuilder(rec model.RawRecord) *sampleBuilder {
	return &sampleBuilder{
		timestamp:     rec.Timestamp,
		vehicleID:     rec.VehicleID,
		vehicleNumber: rec.VehicleNumber,
		lap:           rec.Lap,
	}
}

// set routes one raw record value into its named channel. Unknown channel
// names are ignored, they are not an error. GPS values are recorded even
// when unparsable so the group is dropped later instead of defaulting to 0.
func (b *sampleBuilder) set(name, raw string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch name {
	case "VBOX_Lat_Min":
		if err != nil {
			v = math.NaN()
		}
		b.lat, b.hasLat = v, true
		return
	case "VBOX_Long_Minutes":
		if err != nil {
			v = math.NaN()
		}
		b.lon, b.hasLon = v, true
		return
	}
	if err != nil {
		return
	}
	switch name {
	case "Speed":
		b.speed = v
	case "gear":
		b.gear = v
	case "nmot":
		b.rpm = v
	case "ath":
		b.throttle, b.hasThrottle = v, true
	case "aps":
		b.accelerator, b.hasAccelerator = v, true
	case "pbrake_f":
		b.brakeFront = v
	case "pbrake_r":
		b.brakeRear = v
	case "accx_can":
		b.accelForward = v
	case "accy_can":
		b.accelLateral = v
	case "Steering_Angle":
		b.steeringAngle = v
	case "Laptrigger_lapdist_dls":
		b.lapDistance = v
	}
}

// sample materializes the group. Groups without finite latitude and
// longitude report ok=false and are silently dropped.
func (b *sampleBuilder) sample() (model.TelemetrySample, bool) {
	if !b.hasLat || !b.hasLon ||
		math.IsNaN(b.lat) || math.IsInf(b.lat, 0) ||
		math.IsNaN(b.lon) || math.IsInf(b.lon, 0) {
		return model.TelemetrySample{}, false
	}
	return model.TelemetrySample{
		Timestamp:     b.timestamp,
		VehicleID:     b.vehicleID,
		VehicleNumber: atoiOrZero(b.vehicleNumber),
		Lap:           atoiOrZero(b.lap),
		Latitude:      b.lat,
		Longitude:     b.lon,

		Speed:               b.speed,
		Gear:                b.gear,
		RPM:                 b.rpm,
		Throttle:            b.throttle,
		AcceleratorPosition: b.accelerator,
		BrakeFront:          b.brakeFront,
		BrakeRear:           b.brakeRear,
		AccelForward:        b.accelForward,
		AccelLateral:        b.accelLateral,
		SteeringAngle:       b.steeringAngle,
		LapDistance:         b.lapDistance,

		HasThrottle:            b.hasThrottle,
		HasAcceleratorPosition: b.hasAccelerator,
	}, true
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
