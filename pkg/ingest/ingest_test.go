package ingest

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KillMonga130/Toyota-hackathon/pkg/geo"
	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
	"github.com/KillMonga130/Toyota-hackathon/testsupport/telemetrydata"
)

const testFilename = "fuji_r1_telemetry_data.csv"

func fullGroup(ts string) []string {
	return telemetrydata.GroupRows(ts, "GR86-007", [][2]string{
		{"VBOX_Lat_Min", "35.36060000"},
		{"VBOX_Long_Minutes", "138.92730000"},
		{"Speed", "132.5"},
		{"gear", "4"},
		{"nmot", "6500"},
		{"ath", "78.25"},
		{"aps", "80"},
		{"pbrake_f", "0.5"},
		{"pbrake_r", "0.25"},
		{"accx_can", "0.12"},
		{"accy_can", "-0.45"},
		{"Steering_Angle", "-3.5"},
		{"Laptrigger_lapdist_dls", "1203.75"},
	})
}

func TestLoadReader_PivotsFullGroup(t *testing.T) {
	var rows []string
	rows = append(rows, fullGroup("10:00:00.000")...)
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.100", "GR86-007", 35.3607, 138.9274)...)
	data := telemetrydata.BuildCSV(rows...)

	ld := NewLoader()
	samples, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 2)

	want := model.TelemetrySample{
		Timestamp:     "10:00:00.000",
		VehicleID:     "GR86-007",
		VehicleNumber: 7,
		Lap:           3,
		Latitude:      35.3606,
		Longitude:     138.9273,

		Speed:               132.5,
		Gear:                4,
		RPM:                 6500,
		Throttle:            78.25,
		AcceleratorPosition: 80,
		BrakeFront:          0.5,
		BrakeRear:           0.25,
		AccelForward:        0.12,
		AccelLateral:        -0.45,
		SteeringAngle:       -3.5,
		LapDistance:         1203.75,

		HasThrottle:            true,
		HasAcceleratorPosition: true,
	}
	assert.Empty(t, cmp.Diff(want, samples[0]))

	// the first sample anchors the local frame
	assert.Zero(t, samples[0].X)
	assert.Zero(t, samples[0].Z)
	proj := geo.NewProjection(35.3606, 138.9273)
	wantX, wantZ := proj.ToLocal(35.3607, 138.9274)
	assert.InDelta(t, wantX, samples[1].X, 1e-9)
	assert.InDelta(t, wantZ, samples[1].Z, 1e-9)
}

func TestLoadReader_Idempotent(t *testing.T) {
	var rows []string
	rows = append(rows, fullGroup("10:00:00.000")...)
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.100", "GR86-007", 35.3607, 138.9274)...)
	data := telemetrydata.BuildCSV(rows...)

	ld := NewLoader()
	first, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	second, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestLoadReader_CapBoundsDistinctGroups(t *testing.T) {
	var rows []string
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.000", "GR86-007", 35.3606, 138.9273)...)
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.100", "GR86-007", 35.3607, 138.9274)...)
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.200", "GR86-007", 35.3608, 138.9275)...)
	data := telemetrydata.BuildCSV(rows...)

	ld := NewLoader(WithMaxSamples(2))
	samples, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	// kept groups stay complete and in first-seen order
	assert.Equal(t, "10:00:00.000", samples[0].Timestamp)
	assert.Equal(t, "10:00:00.100", samples[1].Timestamp)
}

func TestLoadReader_DropsGroupsWithoutGPS(t *testing.T) {
	var rows []string
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.000", "GR86-007", 35.3606, 138.9273)...)
	rows = append(rows,
		telemetrydata.Row("10:00:00.100", "GR86-007", "7", "3", "Speed", "130"))
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.200", "GR86-007", 35.3608, 138.9275)...)
	data := telemetrydata.BuildCSV(rows...)

	ld := NewLoader()
	samples, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "10:00:00.000", samples[0].Timestamp)
	assert.Equal(t, "10:00:00.200", samples[1].Timestamp)
}

func TestLoadReader_DropsGroupsWithBrokenGPS(t *testing.T) {
	var rows []string
	rows = append(rows, telemetrydata.GPSGroup("10:00:00.000", "GR86-007", 35.3606, 138.9273)...)
	rows = append(rows, telemetrydata.GroupRows("10:00:00.100", "GR86-007", [][2]string{
		{"VBOX_Lat_Min", "not-a-number"},
		{"VBOX_Long_Minutes", "138.92740000"},
	})...)
	data := telemetrydata.BuildCSV(rows...)

	ld := NewLoader()
	samples, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "10:00:00.000", samples[0].Timestamp)
}

func TestLoadReader_NoGPSAtAll(t *testing.T) {
	data := telemetrydata.BuildCSV(
		telemetrydata.Row("10:00:00.000", "GR86-007", "7", "3", "Speed", "130"),
		telemetrydata.Row("10:00:00.000", "GR86-007", "7", "3", "gear", "4"),
	)
	ld := NewLoader()
	_, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	var ede *EmptyDataError
	require.ErrorAs(t, err, &ede)
	assert.Contains(t, err.Error(), "GPS")
}

func TestLoadReader_EmptyInput(t *testing.T) {
	ld := NewLoader()
	_, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(""))
	var ede *EmptyDataError
	assert.ErrorAs(t, err, &ede)
}

func TestLoadReader_HeaderOnly(t *testing.T) {
	ld := NewLoader()
	_, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(telemetrydata.Header+"\n"))
	var ede *EmptyDataError
	assert.ErrorAs(t, err, &ede)
}

type countingReader struct {
	r     io.Reader
	reads atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads.Add(1)
	return c.r.Read(p)
}

func TestLoadReader_FilenameGatePrecedesAnyRead(t *testing.T) {
	cr := &countingReader{r: strings.NewReader(telemetrydata.BuildCSV())}
	ld := NewLoader()
	_, err := ld.LoadReader(context.Background(), "fuji_r1_results_data.csv", cr)
	var uie *UserInputError
	require.ErrorAs(t, err, &uie)
	assert.Zero(t, cr.reads.Load())
}

func TestLoadReader_WideFormatHasNoGroups(t *testing.T) {
	// a wide export passes the shape gate (GPS header present) but cannot
	// be pivoted, so it surfaces as missing GPS data
	data := "timestamp,vehicle_id,VBOX_Lat_Min,VBOX_Long_Minutes,Speed\n" +
		"10:00:00.000,GR86-007,35.3606,138.9273,120\n"
	ld := NewLoader()
	_, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	var ede *EmptyDataError
	require.ErrorAs(t, err, &ede)
	assert.Contains(t, err.Error(), "GPS")
}

// endlessRows serves the long-format header followed by an unbounded stream
// of identical rows. started is closed on the first Read call.
type endlessRows struct {
	started chan struct{}
	once    sync.Once
	buf     []byte
	line    []byte
}

func newEndlessRows() *endlessRows {
	line := telemetrydata.Row(
		"10:00:00.000", "GR86-007", "7", "3", "Speed", "120") + "\n"
	return &endlessRows{
		started: make(chan struct{}),
		buf:     []byte(telemetrydata.Header + "\n"),
		line:    []byte(line),
	}
}

func (e *endlessRows) Read(p []byte) (int, error) {
	e.once.Do(func() { close(e.started) })
	if len(e.buf) == 0 {
		e.buf = e.line
	}
	n := copy(p, e.buf)
	e.buf = e.buf[n:]
	return n, nil
}

func TestLoadReader_NewLoadSupersedesInflight(t *testing.T) {
	ld := NewLoader()
	endless := newEndlessRows()

	errCh := make(chan error, 1)
	go func() {
		_, err := ld.LoadReader(context.Background(), testFilename, endless)
		errCh <- err
	}()
	<-endless.started

	data := telemetrydata.BuildCSV(
		telemetrydata.GPSGroup("10:00:00.000", "GR86-007", 35.3606, 138.9273)...)
	samples, err := ld.LoadReader(context.Background(), testFilename,
		strings.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, samples, 1)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load did not abort")
	}
}

func TestLoad_RejectsFilenameBeforeOpening(t *testing.T) {
	ld := NewLoader()
	_, err := ld.Load(context.Background(), "/does/not/exist/results.csv")
	// the filename gate fires first, the missing file is never touched
	var uie *UserInputError
	assert.ErrorAs(t, err, &uie)
}

func TestLoadReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := telemetrydata.BuildCSV(
		telemetrydata.GPSGroup("10:00:00.000", "GR86-007", 35.3606, 138.9273)...)
	ld := NewLoader()
	_, err := ld.LoadReader(ctx, testFilename, strings.NewReader(data))
	assert.ErrorIs(t, err, context.Canceled)
}
