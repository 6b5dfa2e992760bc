package rank

import (
	"testing"

	"jobgenie-engine/internal/domain"

	"github.com/stretchr/testify/assert"
)

func intp(i int) *int { return &i }

func TestMatchBadge(t *testing.T) {
	assert.Equal(t, BadgeHigh, MatchBadge(intp(60)))
	assert.Equal(t, BadgeHigh, MatchBadge(intp(95)))
	assert.Equal(t, BadgeMedium, MatchBadge(intp(30)))
	assert.Equal(t, BadgeMedium, MatchBadge(intp(59)))
	assert.Equal(t, BadgeLow, MatchBadge(intp(29)))
	assert.Equal(t, BadgeLow, MatchBadge(nil))
}

func TestSalaryText(t *testing.T) {
	assert.Equal(t, "£60k - £80k", SalaryText(&domain.Salary{Min: 60000, Max: 80000}))
	assert.Equal(t, "£45k - £52k", SalaryText(&domain.Salary{Min: 45500, Max: 52000}))
	assert.Equal(t, "Not provided", SalaryText(nil))
	assert.Equal(t, "Not provided", SalaryText(&domain.Salary{}))
}

func TestKeywordScorer(t *testing.T) {
	s := KeywordScorer{Keywords: []string{"Backend", "go", "GO", " ", "senior"}}

	score, tags := s.Score(domain.JobPosting{Title: "Senior Backend Engineer (Go)"})
	assert.Equal(t, 4, score)
	assert.Equal(t, []string{"Backend", "go", "senior"}, tags)

	score, tags = s.Score(domain.JobPosting{Title: "Designer"})
	assert.Equal(t, 0, score)
	assert.Empty(t, tags)

	var _ Scorer = s
}
