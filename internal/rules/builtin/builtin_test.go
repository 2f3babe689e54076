package builtin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
)

func newState() *model.GameState {
	return &model.GameState{
		Turn:    model.White,
		History: []model.HistoryEntry{},
		Flags: map[model.Color]map[string]any{
			model.White: {},
			model.Black: {},
		},
		Graveyard: map[model.Color][]*model.Piece{
			model.White: {},
			model.Black: {},
		},
	}
}

func put(gs *model.GameState, id int, pt model.PieceType, color model.Color, x, y int) *model.Piece {
	pc := &model.Piece{ID: id, Type: pt, Color: color, HasMoved: true}
	gs.SetPieceAt(model.Position{X: x, Y: y}, pc)
	return pc
}

func startMatch(t *testing.T, ruleID string, gs *model.GameState) *rules.Match {
	t.Helper()
	m, err := rules.CreateMatch("test-match", engine.NewStandard(), gs, ruleID, false)
	require.NoError(t, err)
	return m
}

func mustPlay(t *testing.T, m *rules.Match, mv model.Move) {
	t.Helper()
	res := m.PlayMove(mv)
	require.True(t, res.Ok, res.Reason)
}

func stateJSON(t *testing.T, gs *model.GameState) []byte {
	t.Helper()
	raw, err := json.Marshal(gs)
	require.NoError(t, err)
	return raw
}

func pos(x, y int) model.Position {
	return model.Position{X: x, Y: y}
}

func TestRoyalEscape(t *testing.T) {
	m := startMatch(t, "royal-escape", model.NewGameState())
	gs := m.State

	kingPos := pos(4, 7)
	moves := m.GenerateMoves(kingPos)
	// Only the rank-5 row is both empty and in teleport range from e1.
	require.Len(t, moves, 5)
	for _, mv := range moves {
		assert.Equal(t, 5, mv.To.Y)
		assert.True(t, mv.OwnedBy("royal-escape"))
	}

	mustPlay(t, m, model.Move{
		From:    kingPos,
		To:      pos(4, 5),
		Special: &model.SpecialMove{PluginID: "royal-escape"},
	})

	king := gs.PieceAt(pos(4, 5))
	require.NotNil(t, king)
	assert.Equal(t, model.King, king.Type)
	assert.True(t, gs.BoolFlag(model.White, "royal_escape_used"))
	assert.Equal(t, model.Black, gs.Turn)

	mustPlay(t, m, model.Move{From: pos(0, 1), To: pos(0, 2)})

	assert.Nil(t, m.GenerateMoves(pos(4, 5)), "spent ability must not be offered again")

	before := stateJSON(t, gs)
	res := m.PlayMove(model.Move{
		From:    pos(4, 5),
		To:      pos(4, 3),
		Special: &model.SpecialMove{PluginID: "royal-escape"},
	})
	require.False(t, res.Ok)
	assert.Equal(t, "royal escape already used", res.Reason)
	assert.Equal(t, before, stateJSON(t, gs))
}

func TestSecondWind(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 4, 7)
	put(gs, 2, model.King, model.Black, 4, 0)
	gs.Bury(&model.Piece{ID: 40, Type: model.Knight, Color: model.White})
	gs.Bury(&model.Piece{ID: 41, Type: model.Bishop, Color: model.White})

	m := startMatch(t, "second-wind", gs)

	moves := m.GenerateMoves(pos(4, 7))
	require.Len(t, moves, 7, "one drop per empty back-rank square")
	for _, mv := range moves {
		assert.Equal(t, 7, mv.To.Y)
		id, ok := mv.PayloadInt("pieceId")
		require.True(t, ok)
		assert.Equal(t, 41, id, "most recent capture comes back first")
	}

	mustPlay(t, m, moves[0])

	revived := gs.PieceAt(moves[0].To)
	require.NotNil(t, revived)
	assert.Equal(t, 41, revived.ID)
	assert.Equal(t, model.Bishop, revived.Type)
	assert.True(t, revived.HasMoved)
	require.Len(t, gs.Graveyard[model.White], 1)
	assert.Equal(t, 40, gs.Graveyard[model.White][0].ID)
	assert.True(t, gs.BoolFlag(model.White, "second_wind_used"))

	mustPlay(t, m, model.Move{From: pos(4, 0), To: pos(4, 1)})
	assert.Nil(t, m.GenerateMoves(pos(4, 7)))
}

func TestBloodlustBonusTurnDoesNotChain(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 4, 7)
	put(gs, 2, model.Rook, model.White, 0, 4)
	put(gs, 3, model.Pawn, model.Black, 7, 4)
	put(gs, 4, model.Pawn, model.Black, 7, 1)
	put(gs, 5, model.King, model.Black, 3, 0)

	m := startMatch(t, "bloodlust", gs)

	mustPlay(t, m, model.Move{From: pos(0, 4), To: pos(7, 4)})
	assert.Equal(t, model.White, gs.Turn, "capture grants a bonus action")
	assert.True(t, gs.BoolFlag(model.White, "bloodlust_chain"))

	// The bonus action captures again, but the chain guard stops a second
	// bonus from being granted.
	mustPlay(t, m, model.Move{From: pos(7, 4), To: pos(7, 1)})
	assert.Equal(t, model.Black, gs.Turn)
	_, set := gs.Flag(model.White, "bloodlust_chain")
	assert.False(t, set)
}

func TestFatigue(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 4, 7)
	put(gs, 2, model.Pawn, model.White, 7, 6)
	queen := put(gs, 3, model.Queen, model.White, 3, 4)
	put(gs, 4, model.Pawn, model.Black, 3, 2)
	put(gs, 5, model.King, model.Black, 0, 0)

	m := startMatch(t, "fatigue", gs)

	mustPlay(t, m, model.Move{From: pos(3, 4), To: pos(3, 2)})
	ttl, ok := queen.IntTag("fatigue_ttl")
	require.True(t, ok)
	assert.Equal(t, 2, ttl)

	mustPlay(t, m, model.Move{From: pos(0, 0), To: pos(0, 1)})
	ttl, _ = queen.IntTag("fatigue_ttl")
	assert.Equal(t, 1, ttl, "owner's turn-start ages the tag")

	before := stateJSON(t, gs)
	res := m.PlayMove(model.Move{From: pos(3, 2), To: pos(3, 3)})
	require.False(t, res.Ok)
	assert.Equal(t, "piece is fatigued", res.Reason)
	assert.Equal(t, before, stateJSON(t, gs))

	mustPlay(t, m, model.Move{From: pos(7, 6), To: pos(7, 5)})
	mustPlay(t, m, model.Move{From: pos(0, 1), To: pos(0, 0)})

	assert.False(t, queen.HasTag("fatigue_ttl"))
	assert.Nil(t, queen.Tags, "expired tag must leave no empty map behind")

	mustPlay(t, m, model.Move{From: pos(3, 2), To: pos(3, 3)})
}

func TestLongbow(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 4, 7)
	put(gs, 2, model.Rook, model.White, 0, 4)
	put(gs, 3, model.Pawn, model.White, 0, 3)
	victim := put(gs, 4, model.Bishop, model.Black, 2, 4)
	put(gs, 5, model.Knight, model.Black, 0, 2)
	put(gs, 6, model.King, model.Black, 7, 0)

	m := startMatch(t, "longbow", gs)

	// North is blocked by the friendly pawn; only the eastward shot through
	// the empty b4 square has a target in range.
	moves := m.GenerateMoves(pos(0, 4))
	require.Len(t, moves, 1)
	dir, ok := moves[0].PayloadString("direction")
	require.True(t, ok)
	assert.Equal(t, "E", dir)
	assert.Equal(t, pos(2, 4), moves[0].To)

	mustPlay(t, m, moves[0])

	rook := gs.PieceAt(pos(0, 4))
	require.NotNil(t, rook)
	assert.Equal(t, model.Rook, rook.Type, "the shooter does not move")
	assert.Nil(t, gs.PieceAt(pos(2, 4)))
	require.Len(t, gs.Graveyard[model.Black], 1)
	assert.Equal(t, victim.ID, gs.Graveyard[model.Black][0].ID)
	assert.True(t, gs.BoolFlag(model.White, "longbow_used"))
	assert.Equal(t, model.Black, gs.Turn)

	mustPlay(t, m, model.Move{From: pos(7, 0), To: pos(7, 1)})

	assert.Nil(t, m.GenerateMoves(pos(0, 4)))
	res := m.PlayMove(model.Move{
		From:    pos(0, 4),
		To:      pos(0, 2),
		Special: &model.SpecialMove{PluginID: "longbow", Payload: map[string]any{"direction": "N"}},
	})
	require.False(t, res.Ok)
	assert.Equal(t, "longbow already used", res.Reason)
}

func TestMomentumStreakAccrual(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 7, 7)
	put(gs, 2, model.Pawn, model.White, 4, 4)
	put(gs, 3, model.Pawn, model.Black, 3, 3)
	put(gs, 4, model.Pawn, model.Black, 2, 2)
	put(gs, 5, model.Pawn, model.Black, 7, 1)
	put(gs, 6, model.King, model.Black, 0, 0)

	m := startMatch(t, "momentum", gs)

	mustPlay(t, m, model.Move{From: pos(4, 4), To: pos(3, 3)})
	assert.Equal(t, 1, gs.IntFlag(model.White, "momentum_streak"))

	mustPlay(t, m, model.Move{From: pos(7, 1), To: pos(7, 2)})
	assert.Equal(t, 1, gs.IntFlag(model.White, "momentum_streak"), "opponent moves leave the streak alone")

	mustPlay(t, m, model.Move{From: pos(3, 3), To: pos(2, 2)})
	assert.Equal(t, 2, gs.IntFlag(model.White, "momentum_streak"))

	mustPlay(t, m, model.Move{From: pos(7, 2), To: pos(7, 3)})

	// A quiet move spends nothing but resets the count.
	mustPlay(t, m, model.Move{From: pos(2, 2), To: pos(2, 1)})
	_, set := gs.Flag(model.White, "momentum_streak")
	assert.False(t, set)
}

func TestMomentumUnlockedPawnStep(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 7, 7)
	pawn := put(gs, 2, model.Pawn, model.White, 4, 4)
	put(gs, 3, model.King, model.Black, 0, 0)
	gs.SetFlag(model.White, "momentum_streak", 3)

	m := startMatch(t, "momentum", gs)

	moves := m.GenerateMoves(pos(4, 4))
	// Eight neighbors minus the standard forward push.
	require.Len(t, moves, 7)

	mustPlay(t, m, model.Move{
		From:    pos(4, 4),
		To:      pos(5, 4),
		Special: &model.SpecialMove{PluginID: "momentum"},
	})
	assert.Equal(t, pos(5, 4), pawn.Position)
	_, set := gs.Flag(model.White, "momentum_streak")
	assert.False(t, set, "the step spends the whole streak")
	assert.Equal(t, model.Black, gs.Turn)
}

func TestMomentumStepPromotes(t *testing.T) {
	gs := newState()
	put(gs, 1, model.King, model.White, 7, 7)
	pawn := put(gs, 2, model.Pawn, model.White, 2, 1)
	put(gs, 3, model.King, model.Black, 5, 0)
	gs.SetFlag(model.White, "momentum_streak", 3)

	m := startMatch(t, "momentum", gs)

	mustPlay(t, m, model.Move{
		From:    pos(2, 1),
		To:      pos(1, 0),
		Special: &model.SpecialMove{PluginID: "momentum"},
	})
	assert.Equal(t, model.Queen, pawn.Type)
	assert.Equal(t, pos(1, 0), pawn.Position)
}
