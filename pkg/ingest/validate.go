package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
)

// markerSubstring must be part of the filename. The companion results export
// is rejected by this gate before any content is read.
const markerSubstring = "telemetry"

const (
	msgInvalidFilename = "invalid file: expected a file ending in '_telemetry_data.csv'"
	msgWrongShape      = "missing GPS data: is this the telemetry file instead of the results file?"
	msgEmptyFile       = "csv file is empty"
	msgNoGPS           = "no valid GPS data points found"
)

func checkFilename(name string) error {
	if !strings.Contains(strings.ToLower(name), markerSubstring) {
		return &UserInputError{Msg: msgInvalidFilename}
	}
	return nil
}

// validateShape decides from a small leading byte range whether the input
// looks like a long-format telemetry export (telemetry_name/telemetry_value
// columns) or a wide-format one (a VBOX latitude header). The preview may be
// cut mid-record; a malformed trailing row is not an error here.
func validateShape(preview []byte, maxRows int) error {
	r := csv.NewReader(bytes.NewReader(preview))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return &EmptyDataError{Msg: msgEmptyFile}
		}
		return &ParseError{Msg: "csv preview error", Err: err}
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var hasName, hasValue, hasWideGPS bool
	nameCol := -1
	for i, h := range headers {
		switch {
		case strings.Contains(h, "telemetry_name"):
			hasName = true
			nameCol = i
		case strings.Contains(h, "telemetry_value"):
			hasValue = true
		case strings.Contains(h, "vbox_lat_min"):
			hasWideGPS = true
		}
	}
	if (hasName && hasValue) || hasWideGPS {
		return nil
	}

	// last resort: the first parsed row exposes a field name value
	for row := 0; row < maxRows; row++ {
		rec, readErr := r.Read()
		if readErr != nil {
			break
		}
		if nameCol >= 0 && nameCol < len(rec) && strings.TrimSpace(rec[nameCol]) != "" {
			return nil
		}
	}
	return &UserInputError{Msg: msgWrongShape}
}
