package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePairsOldestFirst(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer(Player{ID: "alice"}, "bloodlust"))
	require.NoError(t, q.AddPlayer(Player{ID: "bob"}, "longbow"))
	require.NoError(t, q.AddPlayer(Player{ID: "carol"}, "fatigue"))
	assert.Equal(t, 3, q.Size())

	p1, p2, ruleID := q.GetNextPair()
	assert.Equal(t, "alice", p1.ID)
	assert.Equal(t, "bob", p2.ID)
	assert.Equal(t, "bloodlust", ruleID, "the earlier player's rule choice wins")
	assert.Equal(t, 1, q.Size())
}

func TestQueueRejectsDoubleJoin(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer(Player{ID: "alice"}, "bloodlust"))
	assert.Error(t, q.AddPlayer(Player{ID: "alice"}, "longbow"))
}
