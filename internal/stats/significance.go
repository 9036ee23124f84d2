package stats

// Significance bands a p-value for display. The classification is a total
// order of thresholds over the p-value and nothing else.
type Significance int

const (
	SignificanceNone Significance = iota
	SignificanceLow
	SignificanceModerate
	SignificanceHigh
	SignificanceCritical
)

func SignificanceOf(p float64) Significance {
	switch {
	case p <= 0.01:
		return SignificanceCritical
	case p <= 0.05:
		return SignificanceHigh
	case p <= 0.1:
		return SignificanceModerate
	case p <= 0.2:
		return SignificanceLow
	default:
		return SignificanceNone
	}
}

// Color is the display color each band maps to.
func (s Significance) Color() string {
	switch s {
	case SignificanceCritical:
		return "red"
	case SignificanceHigh:
		return "orange"
	case SignificanceModerate:
		return "gold"
	case SignificanceLow:
		return "green"
	default:
		return ""
	}
}

func (s Significance) String() string {
	switch s {
	case SignificanceCritical:
		return "critical"
	case SignificanceHigh:
		return "high"
	case SignificanceModerate:
		return "moderate"
	case SignificanceLow:
		return "low"
	default:
		return "none"
	}
}
