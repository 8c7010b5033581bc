package model

// Severity classifies a feedback event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ScoreBreakdown holds the three sub-scores, each 0-100.
type ScoreBreakdown struct {
	Braking    int `json:"braking"`
	Throttle   int `json:"throttle"`
	Smoothness int `json:"smoothness"`
}

// ScoreSnapshot is the live driving score computed over the trailing window.
type ScoreSnapshot struct {
	Overall   int            `json:"overall"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// FeedbackEvent is one coaching message surfaced to the driver overlay.
type FeedbackEvent struct {
	ID          string   `json:"id"`
	FrameIndex  int      `json:"frameIndex"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	CornerLabel string   `json:"cornerLabel,omitempty"`
}

// CornerInsight describes a contiguous run of samples where the lateral-g
// magnitude stayed above the cornering threshold.
type CornerInsight struct {
	ID                 int     `json:"id"`
	StartIndex         int     `json:"startIndex"`
	EndIndex           int     `json:"endIndex"`
	AverageSpeed       float64 `json:"averageSpeed"`
	TrailBrakeRatio    float64 `json:"trailBrakeRatio"`
	ThrottleSmoothness float64 `json:"throttleSmoothness"`
}

// ReportCard is the end-of-session summary.
type ReportCard struct {
	Grade       string         `json:"grade"`
	Summary     string         `json:"summary"`
	BestCorner  string         `json:"bestCorner,omitempty"`
	Improvement string         `json:"improvement,omitempty"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
}

// GGPoint is the friction-circle position of the current sample.
type GGPoint struct {
	LatG        float64 `json:"latG"`
	LongG       float64 `json:"longG"`
	Utilization float64 `json:"utilization"`
}
