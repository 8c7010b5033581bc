package coach

import (
	"github.com/google/uuid"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// feedbackFeedLimit caps the feed at the most recent distinct events.
const feedbackFeedLimit = 5

const (
	msgTrailBrake    = "Try to trail brake deeper into the corner."
	msgSpikyThrottle = "Throttle application is spiky. Roll into the power."
	msgBusyHands     = "Hands are busy. Aim for smoother steering inputs."
	msgGreatRhythm   = "Great rhythm through this sector!"
)

// feedbackFor applies the coaching rules to a breakdown. First matching rule
// wins; nil means no feedback this tick.
func feedbackFor(b model.ScoreBreakdown, frameIndex int) *model.FeedbackEvent {
	event := func(severity model.Severity, msg string) *model.FeedbackEvent {
		return &model.FeedbackEvent{
			ID:         uuid.NewString(),
			FrameIndex: frameIndex,
			Severity:   severity,
			Message:    msg,
		}
	}
	switch {
	case b.Braking < 60:
		return event(model.SeverityWarning, msgTrailBrake)
	case b.Throttle < 60:
		return event(model.SeverityWarning, msgSpikyThrottle)
	case b.Smoothness < 55:
		return event(model.SeverityInfo, msgBusyHands)
	case b.Braking > 85 && b.Throttle > 85 && b.Smoothness > 85:
		return event(model.SeverityInfo, msgGreatRhythm)
	default:
		return nil
	}
}

// feedbackFeed is the append-only event feed, newest first. Consecutive
// identical messages collapse into one entry so a persisting condition does
// not flood the feed.
type feedbackFeed struct {
	events      []model.FeedbackEvent
	lastMessage string
}

// push appends the event unless its message equals the immediately prior
// one. Reports whether the event was accepted.
func (f *feedbackFeed) push(ev model.FeedbackEvent) bool {
	if ev.Message == f.lastMessage {
		return false
	}
	f.lastMessage = ev.Message
	f.events = append([]model.FeedbackEvent{ev}, f.events...)
	if len(f.events) > feedbackFeedLimit {
		f.events = f.events[:feedbackFeedLimit]
	}
	return true
}

func (f *feedbackFeed) list() []model.FeedbackEvent {
	out := make([]model.FeedbackEvent, len(f.events))
	copy(out, f.events)
	return out
}

func (f *feedbackFeed) reset() {
	f.events = nil
	f.lastMessage = ""
}
