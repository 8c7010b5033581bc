package ingest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

func TestCSVSource_ColumnResolution(t *testing.T) {
	// columns out of order, mixed case, plus an extra one we ignore
	data := "extra,LAP,Telemetry_Value,timestamp,VEHICLE_ID,vehicle_number,telemetry_name\n" +
		"x,3,120.5,10:00:00.000,GR86-007,7,Speed\n"
	src, err := newCSVSource(strings.NewReader(data))
	require.NoError(t, err)

	rec, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	want := model.RawRecord{
		Timestamp:     "10:00:00.000",
		VehicleID:     "GR86-007",
		VehicleNumber: "7",
		Lap:           "3",
		Name:          "Speed",
		Value:         "120.5",
	}
	assert.Empty(t, cmp.Diff(want, rec))

	_, ok, err = src.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCSVSource_MissingColumnsYieldEmpty(t *testing.T) {
	data := "timestamp,vehicle_id,telemetry_name,telemetry_value\n" +
		"10:00:00.000,GR86-007,Speed,120\n"
	src, err := newCSVSource(strings.NewReader(data))
	require.NoError(t, err)

	rec, ok, err := src.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, rec.VehicleNumber)
	assert.Empty(t, rec.Lap)
}

func TestCSVSource_EmptyInput(t *testing.T) {
	_, err := newCSVSource(strings.NewReader(""))
	var ede *EmptyDataError
	assert.ErrorAs(t, err, &ede)
}

type sliceSource struct {
	recs []model.RawRecord
	pos  int
}

func (s *sliceSource) Next() (model.RawRecord, bool, error) {
	if s.pos >= len(s.recs) {
		return model.RawRecord{}, false, nil
	}
	rec := s.recs[s.pos]
	s.pos++
	return rec, true, nil
}

func TestCappedSource_StopsBeforeExtraKey(t *testing.T) {
	rec := func(ts string) model.RawRecord {
		return model.RawRecord{Timestamp: ts, VehicleID: "GR86-007", Name: "Speed", Value: "1"}
	}
	src := &sliceSource{recs: []model.RawRecord{
		rec("10:00:00.000"),
		rec("10:00:00.000"),
		rec("10:00:00.100"),
		rec("10:00:00.200"), // third distinct key, beyond the cap
		rec("10:00:00.000"), // never reached
	}}
	capped := newCappedSource(src, 2)

	var got []string
	for {
		r, ok, err := capped.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, r.Timestamp)
	}
	assert.Equal(t, []string{"10:00:00.000", "10:00:00.000", "10:00:00.100"}, got)

	// stays stopped
	_, ok, err := capped.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCappedSource_KnownKeysKeepFlowing(t *testing.T) {
	rec := func(ts, name string) model.RawRecord {
		return model.RawRecord{Timestamp: ts, VehicleID: "GR86-007", Name: name}
	}
	src := &sliceSource{recs: []model.RawRecord{
		rec("10:00:00.000", "Speed"),
		rec("10:00:00.100", "Speed"),
		rec("10:00:00.000", "gear"), // late row for a known group
	}}
	capped := newCappedSource(src, 2)

	count := 0
	for {
		_, ok, err := capped.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 3, count)
}
