package coach

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

// AnalyzeCorners segments the full sample sequence into contiguous runs
// where the lateral-g magnitude stays above the cornering threshold. It runs
// once per session, independent of the live cursor.
func AnalyzeCorners(samples []model.TelemetrySample) []model.CornerInsight {
	corners := make([]model.CornerInsight, 0)
	start := -1
	nextID := 1
	for i := range samples {
		cornering := math.Abs(samples[i].AccelLateral) > trailGThreshold
		switch {
		case cornering && start < 0:
			start = i
		case !cornering && start >= 0:
			corners = append(corners, buildCornerInsight(nextID, samples, start, i-1))
			nextID++
			start = -1
		}
	}
	if start >= 0 {
		corners = append(corners, buildCornerInsight(nextID, samples, start, len(samples)-1))
	}
	return corners
}

func buildCornerInsight(id int, samples []model.TelemetrySample, start, end int) model.CornerInsight {
	frames := samples[start : end+1]

	speeds := make([]float64, len(frames))
	for i := range frames {
		speeds[i] = frames[i].Speed
	}

	brakeFrames := lo.CountBy(frames, func(s model.TelemetrySample) bool {
		return s.BrakeFront > brakeThreshold
	})
	trailFrames := lo.CountBy(frames, func(s model.TelemetrySample) bool {
		return s.BrakeFront > brakeThreshold &&
			math.Abs(s.AccelLateral) > trailGThreshold
	})
	trailRatio := 0.0
	if brakeFrames > 0 {
		trailRatio = float64(trailFrames) / float64(brakeFrames)
	}

	// per-corner throttle smoothness uses a slightly softer damping than the
	// windowed score
	smoothness := 100.0
	if len(frames) > 1 {
		smoothness = 100 - math.Min(throttleInstability(frames)*1.2, 100)
	}

	return model.CornerInsight{
		ID:                 id,
		StartIndex:         start,
		EndIndex:           end,
		AverageSpeed:       stat.Mean(speeds, nil),
		TrailBrakeRatio:    trailRatio,
		ThrottleSmoothness: smoothness,
	}
}
