package rank

import (
	"strings"

	"jobgenie-engine/internal/domain"
)

type Scorer interface {
	Score(job domain.JobPosting) (score int, tags []string)
}

// KeywordScorer scores a posting by the role keywords its title or
// seniority mentions. Each matched keyword is one point and one tag.
type KeywordScorer struct {
	Keywords []string
}

func (s KeywordScorer) Score(job domain.JobPosting) (int, []string) {
	text := strings.ToLower(job.Title + " " + job.Seniority)

	score := 0
	var tags []string
	for _, kw := range s.Keywords {
		n := strings.ToLower(strings.TrimSpace(kw))
		if n == "" {
			continue
		}
		if strings.Contains(text, n) {
			score++
			tags = append(tags, kw)
		}
	}
	return score, uniq(tags)
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		k := strings.ToLower(t)
		if !seen[k] {
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}
