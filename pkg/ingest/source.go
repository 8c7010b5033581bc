package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// recordSource yields raw records one at a time. The second return value is
// false once the source is exhausted (or chose to stop early).
type recordSource interface {
	Next() (model.RawRecord, bool, error)
}

type columnIndexes struct {
	timestamp     int
	vehicleID     int
	vehicleNumber int
	lap           int
	name          int
	value         int
}

// csvSource streams the long-format export row by row. Columns other than
// the six known ones are passed through untouched (i.e. ignored).
type csvSource struct {
	r    *csv.Reader
	cols columnIndexes
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &EmptyDataError{Msg: msgEmptyFile}
		}
		return nil, &ParseError{Msg: "could not read csv header", Err: err}
	}
	cols := columnIndexes{
		timestamp: -1, vehicleID: -1, vehicleNumber: -1,
		lap: -1, name: -1, value: -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "timestamp":
			cols.timestamp = i
		case "vehicle_id":
			cols.vehicleID = i
		case "vehicle_number":
			cols.vehicleNumber = i
		case "lap":
			cols.lap = i
		case "telemetry_name":
			cols.name = i
		case "telemetry_value":
			cols.value = i
		}
	}
	return &csvSource{r: cr, cols: cols}, nil
}

func (s *csvSource) Next() (model.RawRecord, bool, error) {
	rec, err := s.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.RawRecord{}, false, nil
		}
		return model.RawRecord{}, false, err
	}
	field := func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return rec[idx]
	}
	return model.RawRecord{
		Timestamp:     field(s.cols.timestamp),
		VehicleID:     field(s.cols.vehicleID),
		VehicleNumber: field(s.cols.vehicleNumber),
		Lap:           field(s.cols.lap),
		Name:          field(s.cols.name),
		Value:         field(s.cols.value),
	}, true, nil
}

// sampleKey identifies the accumulator a raw record belongs to.
type sampleKey struct {
	Timestamp string
	VehicleID string
}

func keyOf(rec model.RawRecord) sampleKey {
	return sampleKey{Timestamp: rec.Timestamp, VehicleID: rec.VehicleID}
}

// cappedSource stops the stream before a record would create a distinct key
// beyond maxKeys. This keeps the accumulator map (and with it the emitted
// sample count) bounded regardless of the input size.
type cappedSource struct {
	src     recordSource
	maxKeys int
	seen    map[sampleKey]struct{}
	stopped bool
}

func newCappedSource(src recordSource, maxKeys int) *cappedSource {
	return &cappedSource{
		src:     src,
		maxKeys: maxKeys,
		seen:    make(map[sampleKey]struct{}),
	}
}

func (c *cappedSource) Next() (model.RawRecord, bool, error) {
	if c.stopped {
		return model.RawRecord{}, false, nil
	}
	rec, ok, err := c.src.Next()
	if !ok || err != nil {
		return model.RawRecord{}, false, err
	}
	key := keyOf(rec)
	if _, known := c.seen[key]; !known {
		if len(c.seen) >= c.maxKeys {
			c.stopped = true
			return model.RawRecord{}, false, nil
		}
		c.seen[key] = struct{}{}
	}
	return rec, true, nil
}
