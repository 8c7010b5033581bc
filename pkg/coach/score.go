// Package coach implements the real-time driving analytics engine: a
// windowed score over the live sample sequence, a bounded feedback feed and
// an end-of-session report card.
package coach

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// Tuning constants. The linear mappings were chosen empirically, treat them
// as tunables rather than physical truths.
const (
	windowSize      = 180 // trailing samples per score computation
	trailGThreshold = 0.5 // lateral g above which we consider the car cornering
	brakeThreshold  = 5.0 // front brake pressure (bar) above which we count braking

	brakingNeutralScore  = 55.0 // cornering without braking in the window
	brakingStraightScore = 80.0 // neither braking nor cornering

	throttleInstabilityFactor = 1.5
	smoothnessVarianceFactor  = 0.2

	weightBraking    = 0.35
	weightThrottle   = 0.35
	weightSmoothness = 0.30
)

// windowEndingAt returns the trailing window of up to windowSize samples
// ending at (and including) cursor.
func windowEndingAt(samples []model.TelemetrySample, cursor int) []model.TelemetrySample {
	if len(samples) == 0 {
		return nil
	}
	if cursor >= len(samples) {
		cursor = len(samples) - 1
	}
	if cursor < 0 {
		return nil
	}
	start := cursor - windowSize + 1
	if start < 0 {
		start = 0
	}
	return samples[start : cursor+1]
}

// ComputeScore evaluates one window of samples. It is a pure function; the
// caller owns the cadence at which it runs.
func ComputeScore(window []model.TelemetrySample) model.ScoreSnapshot {
	if len(window) == 0 {
		return model.ScoreSnapshot{}
	}

	var brakingFrames, trailFrames, cornerFrames int
	for i := range window {
		latG := math.Abs(window[i].AccelLateral)
		braking := window[i].BrakeFront > brakeThreshold
		cornering := latG > trailGThreshold
		if braking {
			brakingFrames++
			if cornering {
				trailFrames++
			}
		}
		if cornering {
			cornerFrames++
		}
	}
	var brakingScore float64
	switch {
	case brakingFrames > 0:
		brakingScore = clamp(float64(trailFrames)/float64(brakingFrames)*100, 25, 100)
	case cornerFrames > 0:
		brakingScore = brakingNeutralScore
	default:
		brakingScore = brakingStraightScore
	}

	throttleScore := clamp(
		100-throttleInstability(window)*throttleInstabilityFactor, 20, 100)

	steering := make([]float64, len(window))
	for i := range window {
		steering[i] = window[i].SteeringAngle
	}
	smoothnessScore := clamp(
		100-stat.PopVariance(steering, nil)*smoothnessVarianceFactor, 15, 100)

	breakdown := model.ScoreBreakdown{
		Braking:    int(math.Round(brakingScore)),
		Throttle:   int(math.Round(throttleScore)),
		Smoothness: int(math.Round(smoothnessScore)),
	}
	overall := int(math.Round(
		float64(breakdown.Braking)*weightBraking +
			float64(breakdown.Throttle)*weightThrottle +
			float64(breakdown.Smoothness)*weightSmoothness))
	return model.ScoreSnapshot{Overall: overall, Breakdown: breakdown}
}

// throttleInstability is the mean absolute successive difference of the
// throttle channel (accelerator position as fallback) across the window.
func throttleInstability(window []model.TelemetrySample) float64 {
	if len(window) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(window); i++ {
		sum += math.Abs(throttleValue(&window[i]) - throttleValue(&window[i-1]))
	}
	return sum / float64(len(window)-1)
}

// throttleValue prefers the throttle channel, falls back to the accelerator
// position and finally to 0 when neither was supplied.
func throttleValue(s *model.TelemetrySample) float64 {
	switch {
	case s.HasThrottle:
		return s.Throttle
	case s.HasAcceleratorPosition:
		return s.AcceleratorPosition
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
