// Package ingest turns a raw long-format telemetry export into a bounded,
// ordered, coordinate-normalized sample sequence. The input may be far too
// large to hold in memory; only the accumulator map (bounded by the sample
// budget) and the current row are kept.
package ingest

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/KillMonga130/Toyota-hackathon/log"
	"github.com/KillMonga130/Toyota-hackathon/pkg/geo"
	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

const (
	// DefaultMaxSamples bounds the number of distinct (timestamp, vehicle)
	// groups pivoted from the input. Trades completeness for bounded
	// latency and memory on multi-gigabyte exports.
	DefaultMaxSamples = 50_000
	// DefaultPreviewBytes is the leading byte range used for shape validation.
	DefaultPreviewBytes = 512 * 1024
	// DefaultPreviewRows caps the rows parsed during shape validation.
	DefaultPreviewRows = 500

	// rows between cooperative context checks while pivoting
	ctxCheckInterval = 1024

	scopeName = "github.com/KillMonga130/Toyota-hackathon/pkg/ingest"
)

// Loader runs the ingestion pipeline. A loader owns at most one in-flight
// load; starting a new one supersedes (cancels) the previous request.
type Loader struct {
	maxSamples   int
	previewBytes int
	previewRows  int
	l            *log.Logger
	tracer       trace.Tracer
	rowsRead     metric.Int64Counter
	samplesOut   metric.Int64Counter

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelCauseFunc
}

type LoaderOption func(*Loader)

func WithLogger(l *log.Logger) LoaderOption {
	return func(ld *Loader) { ld.l = l }
}

func WithMaxSamples(n int) LoaderOption {
	return func(ld *Loader) { ld.maxSamples = n }
}

func WithPreviewBytes(n int) LoaderOption {
	return func(ld *Loader) { ld.previewBytes = n }
}

func WithPreviewRows(n int) LoaderOption {
	return func(ld *Loader) { ld.previewRows = n }
}

func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{
		maxSamples:   DefaultMaxSamples,
		previewBytes: DefaultPreviewBytes,
		previewRows:  DefaultPreviewRows,
		l:            log.Default().Named("ingest"),
		tracer:       otel.Tracer(scopeName),
	}
	for _, opt := range opts {
		opt(ld)
	}
	meter := otel.Meter(scopeName)
	var err error
	if ld.rowsRead, err = meter.Int64Counter("ingest.rows",
		metric.WithDescription("Number of raw rows read")); err != nil {
		ld.l.Warn("could not register metric", log.ErrorField(err))
	}
	if ld.samplesOut, err = meter.Int64Counter("ingest.samples",
		metric.WithDescription("Number of samples emitted")); err != nil {
		ld.l.Warn("could not register metric", log.ErrorField(err))
	}
	return ld
}

// Load ingests the file at path. The filename gate runs before the file is
// even opened.
func (ld *Loader) Load(ctx context.Context, path string) ([]model.TelemetrySample, error) {
	if err := checkFilename(filepath.Base(path)); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ld.LoadReader(ctx, filepath.Base(path), f)
}

// LoadReader ingests the stream r, which must carry the given filename.
// On any failure nothing is published: the returned slice is nil.
//
//nolint:funlen // single pipeline pass, reads top to bottom
func (ld *Loader) LoadReader(
	ctx context.Context, name string, r io.Reader,
) ([]model.TelemetrySample, error) {
	if err := checkFilename(name); err != nil {
		return nil, err
	}
	ctx, finish := ld.begin(ctx)
	defer finish()

	ctx, span := ld.tracer.Start(ctx, "ingest.load")
	defer span.End()

	br := bufio.NewReaderSize(r, ld.previewBytes)
	preview, err := br.Peek(ld.previewBytes)
	if len(preview) == 0 {
		if err != nil && err != io.EOF {
			return nil, &ParseError{Msg: "could not read telemetry file", Err: err}
		}
		return nil, &EmptyDataError{Msg: msgEmptyFile}
	}
	if err := validateShape(preview, ld.previewRows); err != nil {
		return nil, err
	}

	src, err := newCSVSource(br)
	if err != nil {
		return nil, err
	}
	capped := newCappedSource(src, ld.maxSamples)

	builders := make(map[sampleKey]*sampleBuilder)
	order := make([]sampleKey, 0)
	rows := 0
	for {
		if rows%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				ld.l.Info("ingestion aborted", log.Int("rows", rows))
				return nil, context.Cause(ctx)
			default:
			}
		}
		rec, ok, readErr := capped.Next()
		if readErr != nil {
			return nil, &ParseError{Msg: "csv parsing error", Err: readErr}
		}
		if !ok {
			break
		}
		rows++
		key := keyOf(rec)
		b, known := builders[key]
		if !known {
			b = newSampleBuilder(rec)
			builders[key] = b
			order = append(order, key)
		}
		b.set(rec.Name, rec.Value)
	}
	if ld.rowsRead != nil {
		ld.rowsRead.Add(ctx, int64(rows))
	}
	if rows == 0 {
		return nil, &EmptyDataError{Msg: msgEmptyFile}
	}

	samples := make([]model.TelemetrySample, 0, len(order))
	for _, key := range order {
		if s, ok := builders[key].sample(); ok {
			samples = append(samples, s)
		}
	}
	if len(samples) == 0 {
		return nil, &EmptyDataError{Msg: msgNoGPS}
	}

	proj := geo.NewProjection(samples[0].Latitude, samples[0].Longitude)
	for i := range samples {
		samples[i].X, samples[i].Z = proj.ToLocal(
			samples[i].Latitude, samples[i].Longitude)
	}
	if ld.samplesOut != nil {
		ld.samplesOut.Add(ctx, int64(len(samples)))
	}
	ld.l.Info("telemetry ingested",
		log.String("file", name),
		log.Int("rows", rows),
		log.Int("samples", len(samples)),
		log.Int("dropped", len(order)-len(samples)))
	return samples, nil
}

// begin registers a new in-flight load, superseding a previous one. The
// returned finish func deregisters it and is safe to call more than once.
func (ld *Loader) begin(ctx context.Context) (context.Context, func()) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if ld.cancel != nil {
		ld.cancel(ErrSuperseded)
	}
	ctx, cancel := context.WithCancelCause(ctx)
	ld.gen++
	myGen := ld.gen
	ld.cancel = cancel
	return ctx, func() {
		ld.mu.Lock()
		defer ld.mu.Unlock()
		cancel(nil)
		if ld.gen == myGen {
			ld.cancel = nil
		}
	}
}
