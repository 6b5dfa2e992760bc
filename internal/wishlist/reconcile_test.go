package wishlist

import (
	"testing"

	"jobgenie-engine/internal/domain"

	"github.com/stretchr/testify/assert"
)

func group(name string, n int) domain.JobGroup {
	g := domain.JobGroup{Company: name}
	for i := 0; i < n; i++ {
		g.Jobs = append(g.Jobs, domain.JobPosting{Title: "role", Company: name})
	}
	return g
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Google", "Google UK Ltd"))
	assert.True(t, Matches("Google UK Ltd", "google"))
	assert.True(t, Matches("MONZO", "monzo"))
	assert.False(t, Matches("Monzo", "Wise"))
	assert.False(t, Matches("", "Wise"))
	assert.False(t, Matches("Wise", ""))
	assert.False(t, Matches("  ", "  "))
}

func TestReconciler_FirstMatchWins(t *testing.T) {
	r := NewReconciler([]domain.JobGroup{
		group("Google UK Ltd", 3),
		group("Google", 5),
		group("Wise", 1),
	})

	for i := 0; i < 10; i++ {
		g, ok := r.GroupFor("Google")
		assert.True(t, ok)
		assert.Equal(t, "Google UK Ltd", g.Company)
		assert.Equal(t, 3, r.CountFor("Google"))
	}
}

func TestReconciler_NoMatch(t *testing.T) {
	r := NewReconciler([]domain.JobGroup{group("Wise", 2)})
	_, ok := r.GroupFor("Revolut")
	assert.False(t, ok)
	assert.Equal(t, 0, r.CountFor("Revolut"))

	empty := NewReconciler(nil)
	assert.Equal(t, 0, empty.CountFor("Wise"))
}

func TestReconciler_BothDirections(t *testing.T) {
	r := NewReconciler([]domain.JobGroup{group("Deep", 1), group("DeepMind Technologies", 4)})
	// "DeepMind" contains "Deep", which comes first
	assert.Equal(t, 1, r.CountFor("DeepMind"))
	// "DeepMind Technologies Ltd" contains both; still the first
	assert.Equal(t, 1, r.CountFor("DeepMind Technologies Ltd"))
}
