package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cshours/community-service-hub/internal/domain/user"
)

func student(username string, hours int) *user.Student {
	return &user.Student{
		ID:         "id-" + username,
		Username:   user.Username(username),
		TotalHours: user.Hours(hours),
	}
}

func TestRank_Descending(t *testing.T) {
	entries := Rank([]*user.Student{
		student("low", 5),
		student("high", 50),
		student("mid", 20),
	})

	assert.Len(t, entries, 3)
	assert.Equal(t, Entry{Rank: 1, Username: "high", TotalHours: 50}, entries[0])
	assert.Equal(t, Entry{Rank: 2, Username: "mid", TotalHours: 20}, entries[1])
	assert.Equal(t, Entry{Rank: 3, Username: "low", TotalHours: 5}, entries[2])
}

func TestRank_StableTies(t *testing.T) {
	// Equal totals keep the input (registration) order.
	input := []*user.Student{
		student("first", 10),
		student("second", 10),
		student("third", 10),
	}

	entries := Rank(input)
	assert.Equal(t, "first", entries[0].Username)
	assert.Equal(t, "second", entries[1].Username)
	assert.Equal(t, "third", entries[2].Username)

	// Deterministic across repeated reads of the same data
	assert.Equal(t, entries, Rank(input))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]*user.Student{}))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	input := []*user.Student{
		student("a", 1),
		student("b", 99),
	}

	_ = Rank(input)
	assert.Equal(t, user.Username("a"), input[0].Username)
	assert.Equal(t, user.Username("b"), input[1].Username)
}
