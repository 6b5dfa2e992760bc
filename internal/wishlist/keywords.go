package wishlist

import "jobgenie-engine/internal/textutil"

// ParseRoleKeywords splits the comma separated role keyword string into
// trimmed, non-empty terms. An empty result is ErrNoRoleKeywords.
func ParseRoleKeywords(s string) ([]string, error) {
	terms := textutil.SplitList(s)
	if len(terms) == 0 {
		return nil, ErrNoRoleKeywords
	}
	return terms, nil
}
