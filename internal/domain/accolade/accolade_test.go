package accolade

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

func milestones(ms ...int) []Milestone {
	out := make([]Milestone, len(ms))
	for i, m := range ms {
		out[i] = Milestone(m)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	assert.Empty(t, Evaluate(0))
	assert.Empty(t, Evaluate(9))

	// Milestones unlock exactly at the threshold
	assert.Equal(t, milestones(10), Evaluate(10))
	assert.Equal(t, milestones(10), Evaluate(24))
	assert.Equal(t, milestones(10, 25), Evaluate(25))
	assert.Equal(t, milestones(10, 25, 50), Evaluate(99))
	assert.Equal(t, milestones(10, 25, 50, 100), Evaluate(100))
	assert.Equal(t, milestones(10, 25, 50, 100), Evaluate(5000))
}

func TestEvaluate_Monotonic(t *testing.T) {
	// More hours never removes an accolade.
	prev := 0
	for h := 0; h <= 120; h++ {
		cur := len(Evaluate(user.Hours(h)))
		assert.GreaterOrEqual(t, cur, prev, "hours %d", h)
		prev = cur
	}
}

func TestReached(t *testing.T) {
	assert.False(t, Reached(9, 10))
	assert.True(t, Reached(10, 10))
	assert.True(t, Reached(200, 100))
}

func TestNext(t *testing.T) {
	next, ok := Next(0)
	assert.True(t, ok)
	assert.Equal(t, Milestone(10), next)

	next, ok = Next(10)
	assert.True(t, ok)
	assert.Equal(t, Milestone(25), next)

	next, ok = Next(99)
	assert.True(t, ok)
	assert.Equal(t, Milestone(100), next)

	_, ok = Next(100)
	assert.False(t, ok)
}
