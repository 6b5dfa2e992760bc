package rank

import (
	"fmt"

	"jobgenie-engine/internal/domain"
)

type Badge string

const (
	BadgeHigh   Badge = "high"
	BadgeMedium Badge = "medium"
	BadgeLow    Badge = "low"
)

// MatchBadge buckets a match score: 60 and above is high, 30 and above is
// medium, anything else (or no score) is low.
func MatchBadge(score *int) Badge {
	switch {
	case score == nil:
		return BadgeLow
	case *score >= 60:
		return BadgeHigh
	case *score >= 30:
		return BadgeMedium
	default:
		return BadgeLow
	}
}

// SalaryText renders a yearly range as "£60k - £80k".
func SalaryText(s *domain.Salary) string {
	if s == nil || (s.Min == 0 && s.Max == 0) {
		return "Not provided"
	}
	return fmt.Sprintf("£%dk - £%dk", s.Min/1000, s.Max/1000)
}
