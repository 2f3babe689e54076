package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState()

	require.Equal(t, White, gs.Turn)
	require.Equal(t, 0, gs.MoveNumber)
	require.NotNil(t, gs.Flags[White])
	require.NotNil(t, gs.Flags[Black])
	require.Empty(t, gs.Graveyard[White])
	require.Empty(t, gs.Graveyard[Black])

	seen := make(map[int]bool)
	count := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := gs.Board[y][x]
			if pc == nil {
				continue
			}
			count++
			assert.False(t, seen[pc.ID], "piece ID %d assigned twice", pc.ID)
			seen[pc.ID] = true
			assert.Equal(t, Position{X: x, Y: y}, pc.Position)
		}
	}
	require.Equal(t, 32, count)

	require.Equal(t, King, gs.PieceAt(Position{X: 4, Y: 0}).Type)
	require.Equal(t, Black, gs.PieceAt(Position{X: 4, Y: 0}).Color)
	require.Equal(t, King, gs.PieceAt(Position{X: 4, Y: 7}).Type)
	require.Equal(t, White, gs.PieceAt(Position{X: 4, Y: 7}).Color)
}

func TestCloneIsDeep(t *testing.T) {
	gs := NewGameState()
	gs.SetFlag(White, "streak", 2)
	pawn := gs.PieceAt(Position{X: 0, Y: 6})
	pawn.SetTag("ttl", 3)
	gs.Bury(&Piece{ID: 99, Type: Knight, Color: Black})
	target := Position{X: 3, Y: 3}
	gs.EnPassantTarget = &target

	clone := gs.Clone()

	t.Run("board pieces are copies", func(t *testing.T) {
		clonePawn := clone.PieceAt(Position{X: 0, Y: 6})
		require.NotSame(t, pawn, clonePawn)
		clonePawn.SetTag("ttl", 99)
		ttl, ok := pawn.IntTag("ttl")
		require.True(t, ok)
		assert.Equal(t, 3, ttl)
	})

	t.Run("flags are copies", func(t *testing.T) {
		clone.SetFlag(White, "streak", 100)
		clone.SetFlag(Black, "other", true)
		assert.Equal(t, 2, gs.IntFlag(White, "streak"))
		_, ok := gs.Flag(Black, "other")
		assert.False(t, ok)
	})

	t.Run("graveyards are copies", func(t *testing.T) {
		require.Len(t, clone.Graveyard[Black], 1)
		clone.Graveyard[Black][0].Type = Queen
		assert.Equal(t, Knight, gs.Graveyard[Black][0].Type)
	})

	t.Run("en passant target is a copy", func(t *testing.T) {
		clone.EnPassantTarget.X = 7
		assert.Equal(t, 3, gs.EnPassantTarget.X)
	})

	t.Run("board mutation does not leak", func(t *testing.T) {
		clone.SetPieceAt(Position{X: 4, Y: 4}, clone.PieceAt(Position{X: 0, Y: 6}))
		clone.SetPieceAt(Position{X: 0, Y: 6}, nil)
		assert.NotNil(t, gs.PieceAt(Position{X: 0, Y: 6}))
		assert.Nil(t, gs.PieceAt(Position{X: 4, Y: 4}))
	})
}

func TestTagCleanup(t *testing.T) {
	pc := &Piece{ID: 1, Type: Pawn, Color: White}

	pc.SetTag("ttl", 1)
	require.True(t, pc.HasTag("ttl"))

	pc.RemoveTag("ttl")
	assert.False(t, pc.HasTag("ttl"))
	assert.Nil(t, pc.Tags, "empty tag map must be dropped, not kept")
}

func TestBuryAndExhume(t *testing.T) {
	gs := NewGameState()
	knight := &Piece{ID: 50, Type: Knight, Color: White}
	bishop := &Piece{ID: 51, Type: Bishop, Color: White}
	gs.Bury(knight)
	gs.Bury(bishop)

	require.Len(t, gs.Graveyard[White], 2)

	got := gs.Exhume(White, 50)
	require.NotNil(t, got)
	assert.Equal(t, 50, got.ID)
	require.Len(t, gs.Graveyard[White], 1)

	assert.Nil(t, gs.Exhume(White, 50), "second exhume of the same piece")
	assert.Nil(t, gs.Exhume(Black, 51), "wrong color graveyard")
}

func TestMoveCloneIsDeep(t *testing.T) {
	mv := Move{
		From: Position{X: 0, Y: 0},
		To:   Position{X: 1, Y: 1},
		Special: &SpecialMove{
			PluginID: "some-rule",
			Payload:  map[string]any{"pieceId": 7},
		},
	}
	clone := mv.Clone()
	clone.Special.Payload["pieceId"] = 8

	id, ok := mv.PayloadInt("pieceId")
	require.True(t, ok)
	assert.Equal(t, 7, id)
}
