package wishlist

import (
	"strings"

	"jobgenie-engine/internal/domain"
)

// Matches reports whether a job group labelled groupName belongs to the
// company called companyName: either name contains the other, ignoring case.
// Blank names never match.
func Matches(companyName, groupName string) bool {
	c := domain.NameKey(companyName)
	g := domain.NameKey(groupName)
	if c == "" || g == "" {
		return false
	}
	return strings.Contains(c, g) || strings.Contains(g, c)
}

// Reconciler associates companies with the backend's job groups by name.
// Lookups scan the groups in order and the first match wins; nothing is
// indexed, so repeated calls see exactly the same answer.
type Reconciler struct {
	groups []domain.JobGroup
}

func NewReconciler(groups []domain.JobGroup) Reconciler {
	return Reconciler{groups: groups}
}

// GroupFor returns the first group matching companyName.
func (r Reconciler) GroupFor(companyName string) (domain.JobGroup, bool) {
	for _, g := range r.groups {
		if Matches(companyName, g.Company) {
			return g, true
		}
	}
	return domain.JobGroup{}, false
}

// CountFor returns the number of jobs in the first matching group, or 0.
func (r Reconciler) CountFor(companyName string) int {
	g, ok := r.GroupFor(companyName)
	if !ok {
		return 0
	}
	return len(g.Jobs)
}
