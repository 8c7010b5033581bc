package coach

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/KillMonga130/Toyota-hackathon/pkg/model"
)

const (
	hintBraking    = "Work on blending off the brakes as you turn in."
	hintThrottle   = "Modulate the throttle. Roll on instead of stabbing."
	hintSmoothness = "Calm the hands. Aim for one clean steering arc per corner."
)

func gradeFromScore(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "B-"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// improvementFor picks the coaching sentence for the weakest sub-score.
func improvementFor(b model.ScoreBreakdown) string {
	type entry struct {
		hint  string
		value int
	}
	weakest := lo.MinBy([]entry{
		{hint: hintBraking, value: b.Braking},
		{hint: hintThrottle, value: b.Throttle},
		{hint: hintSmoothness, value: b.Smoothness},
	}, func(a, b entry) bool { return a.value < b.value })
	return weakest.hint
}

// buildReportCard summarizes the session from the latest snapshot and the
// full-pass corner insights.
func buildReportCard(snap model.ScoreSnapshot, corners []model.CornerInsight) model.ReportCard {
	card := model.ReportCard{
		Grade:       gradeFromScore(snap.Overall),
		Summary:     fmt.Sprintf("Driving score %d/100", snap.Overall),
		Improvement: improvementFor(snap.Breakdown),
		Breakdown:   snap.Breakdown,
	}
	if len(corners) > 0 {
		best := lo.MaxBy(corners, func(a, b model.CornerInsight) bool {
			return a.AverageSpeed > b.AverageSpeed
		})
		card.BestCorner = fmt.Sprintf("Corner %d", best.ID)
	}
	return card
}
