// Package telemetrydata provides builders for synthetic telemetry exports
// and sample sequences used by tests.
package telemetrydata

import (
	"fmt"
	"strings"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// Header is the column set of the long-format export.
const Header = "timestamp,vehicle_id,vehicle_number,lap,telemetry_name,telemetry_value"

func Row(ts, vehicleID, vehicleNumber, lap, name, value string) string {
	return strings.Join([]string{ts, vehicleID, vehicleNumber, lap, name, value}, ",")
}

// GroupRows emits one row per channel for a single (timestamp, vehicle) group.
func GroupRows(ts, vehicleID string, channels [][2]string) []string {
	rows := make([]string, 0, len(channels))
	for _, c := range channels {
		rows = append(rows, Row(ts, vehicleID, "7", "3", c[0], c[1]))
	}
	return rows
}

// GPSGroup is a minimal group carrying just latitude and longitude.
func GPSGroup(ts, vehicleID string, lat, lon float64) []string {
	return GroupRows(ts, vehicleID, [][2]string{
		{"VBOX_Lat_Min", fmt.Sprintf("%.8f", lat)},
		{"VBOX_Long_Minutes", fmt.Sprintf("%.8f", lon)},
	})
}

func BuildCSV(rows ...string) string {
	return Header + "\n" + strings.Join(rows, "\n") + "\n"
}

// Samples builds a synthetic, already normalized sample sequence. The base
// sequence is a clean straight at constant throttle; mutate (may be nil)
// adjusts individual samples.
func Samples(n int, mutate func(i int, s *model.TelemetrySample)) []model.TelemetrySample {
	out := make([]model.TelemetrySample, n)
	for i := range out {
		out[i] = model.TelemetrySample{
			Timestamp:     fmt.Sprintf("10:00:%02d.%03d", i/10, (i%10)*100),
			VehicleID:     "GR86-007",
			VehicleNumber: 7,
			Lap:           1 + i/100,
			Latitude:      35.0 + float64(i)*1e-5,
			Longitude:     139.0 + float64(i)*1e-5,
			Speed:         120,
			Throttle:      50,
			HasThrottle:   true,
		}
		if mutate != nil {
			mutate(i, &out[i])
		}
	}
	return out
}
