package coach

import (
	"math"
	"time"

	"github.com/KillMonga130/Toyota-hackathon/log"
	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// updateInterval throttles score recomputation: the caller may tick the
// engine on every rendering frame, recomputation happens at most this often.
const updateInterval = 120 * time.Millisecond

// EngineState is the per-session state of the engine.
type EngineState int

const (
	// StateIdle: no samples loaded, no score, no feedback.
	StateIdle EngineState = iota
	// StateScoring: samples present, score/feedback recomputed on a
	// throttled cadence.
	StateScoring
	// StateReported: playback stopped or reached the end; the report card
	// for this transition has been issued.
	StateReported
)

func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScoring:
		return "scoring"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}

// Engine consumes the published sample sequence plus a moving cursor and
// maintains the live score, the feedback feed and the report card. It is
// purely reactive: all work happens inside Update, no goroutines, no locks.
// The sample slice is treated as immutable once set.
type Engine struct {
	samples []model.TelemetrySample
	corners []model.CornerInsight

	state      EngineState
	now        func() time.Time
	lastUpdate time.Time
	snapshot   model.ScoreSnapshot
	feed       feedbackFeed
	wasPlaying bool
	report     *model.ReportCard

	snapshotCh chan model.ScoreSnapshot
	eventCh    chan model.FeedbackEvent
	l          *log.Logger
}

type EngineOption func(*Engine)

// WithNow injects the clock used for the recomputation throttle.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithEngineLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.l = l }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		state:      StateIdle,
		now:        time.Now,
		snapshotCh: make(chan model.ScoreSnapshot, 32),
		eventCh:    make(chan model.FeedbackEvent, 32),
		l:          log.Default().Named("coach"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSamples publishes a new session to the engine and resets all derived
// state. An empty slice puts the engine back to idle.
func (e *Engine) SetSamples(samples []model.TelemetrySample) {
	e.samples = samples
	e.corners = AnalyzeCorners(samples)
	e.snapshot = model.ScoreSnapshot{}
	e.feed.reset()
	e.report = nil
	e.lastUpdate = time.Time{}
	e.wasPlaying = false
	if len(samples) == 0 {
		e.state = StateIdle
		return
	}
	e.state = StateScoring
	e.l.Debug("session loaded",
		log.Int("samples", len(samples)), log.Int("corners", len(e.corners)))
}

// Update is the caller-driven tick: cursor is the index of the current
// sample, playing reports whether playback is running. Score and feedback
// are recomputed at most every updateInterval; the report card is issued
// exactly once per transition into the reported state.
func (e *Engine) Update(cursor int, playing bool) {
	if e.state == StateIdle {
		return
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(e.samples) {
		cursor = len(e.samples) - 1
	}

	if now := e.now(); e.lastUpdate.IsZero() || now.Sub(e.lastUpdate) >= updateInterval {
		e.lastUpdate = now
		e.recompute(cursor)
	}

	stopEdge := e.wasPlaying && !playing
	e.wasPlaying = playing
	nearEnd := cursor >= len(e.samples)-2

	switch e.state {
	case StateScoring:
		if stopEdge || nearEnd {
			card := buildReportCard(e.snapshot, e.corners)
			e.report = &card
			e.state = StateReported
			e.l.Info("report card issued",
				log.String("grade", card.Grade),
				log.Int("score", e.snapshot.Overall))
		}
	case StateReported:
		// scrubbing back into the session re-arms the report
		if !nearEnd {
			e.state = StateScoring
		}
	case StateIdle:
	}
}

func (e *Engine) recompute(cursor int) {
	window := windowEndingAt(e.samples, cursor)
	if len(window) == 0 {
		return
	}
	e.snapshot = ComputeScore(window)
	select {
	case e.snapshotCh <- e.snapshot:
	default:
	}
	ev := feedbackFor(e.snapshot.Breakdown, cursor)
	if ev == nil || !e.feed.push(*ev) {
		return
	}
	select {
	case e.eventCh <- *ev:
	default:
	}
}

// Snapshot returns the most recently computed score.
func (e *Engine) Snapshot() model.ScoreSnapshot { return e.snapshot }

// Feedback returns the feed, newest first, at most 5 entries.
func (e *Engine) Feedback() []model.FeedbackEvent { return e.feed.list() }

// Report returns the report card of the latest stop/end transition, nil if
// none was issued yet.
func (e *Engine) Report() *model.ReportCard { return e.report }

func (e *Engine) State() EngineState { return e.state }

// Corners returns the full-pass corner segmentation of the session.
func (e *Engine) Corners() []model.CornerInsight { return e.corners }

// Snapshots exposes the live score stream. Slow consumers miss updates
// rather than blocking the engine.
func (e *Engine) Snapshots() <-chan model.ScoreSnapshot { return e.snapshotCh }

// Events exposes the feedback stream.
func (e *Engine) Events() <-chan model.FeedbackEvent { return e.eventCh }

// GGPoint derives the friction-circle point from the sample at cursor.
func (e *Engine) GGPoint(cursor int) model.GGPoint {
	if cursor < 0 || cursor >= len(e.samples) {
		return model.GGPoint{}
	}
	latG := e.samples[cursor].AccelLateral
	longG := e.samples[cursor].AccelForward
	return model.GGPoint{
		LatG:        latG,
		LongG:       longG,
		Utilization: math.Min(math.Hypot(latG, longG)/1.5, 1),
	}
}
