package builtin

import (
	"errors"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
)

const (
	longbowID      = "longbow"
	longbowFlag    = "longbow_used"
	longbowPayload = "direction"
	longbowRange   = 2
)

var longbowDirs = map[string]model.Position{
	"N": {X: 0, Y: -1},
	"S": {X: 0, Y: 1},
	"E": {X: 1, Y: 0},
	"W": {X: -1, Y: 0},
}

func init() {
	rules.MustRegister(Longbow())
}

// Longbow gives each side one volley per game: a rook may shoot an enemy
// piece (not a king) exactly two squares away along a rank or file, through
// an empty intermediate square, without moving. The chosen ray direction
// travels in the move payload from proposal to commit.
func Longbow() *rules.Plugin {
	return &rules.Plugin{
		ID:          longbowID,
		Name:        "Longbow",
		Description: "Once per game, a rook may shoot an enemy piece exactly two squares away without moving.",

		GenerateExtraMovesFunc: func(ctx rules.GenerateContext) []model.Move {
			if ctx.Piece.Type != model.Rook {
				return nil
			}
			if ctx.State.BoolFlag(ctx.Piece.Color, longbowFlag) {
				return nil
			}
			var moves []model.Move
			for name, dir := range longbowDirs {
				between := ctx.Pos.Add(dir.X, dir.Y)
				target := ctx.Pos.Add(longbowRange*dir.X, longbowRange*dir.Y)
				if !ctx.Engine.InBounds(target) || ctx.Engine.PieceAt(ctx.State, between) != nil {
					continue
				}
				victim := ctx.Engine.PieceAt(ctx.State, target)
				if victim == nil || victim.Color == ctx.Piece.Color || victim.Type == model.King {
					continue
				}
				moves = append(moves, model.Move{
					From: ctx.Pos,
					To:   target,
					Special: &model.SpecialMove{
						PluginID: longbowID,
						Payload:  map[string]any{longbowPayload: name},
					},
				})
			}
			return moves
		},

		BeforeMoveApplyFunc: func(ctx rules.BeforeContext) *rules.BeforeResult {
			if !ctx.Move.OwnedBy(longbowID) {
				return nil
			}
			rook := ctx.Engine.PieceAt(ctx.State, ctx.Move.From)
			if rook == nil || rook.Type != model.Rook || rook.Color != ctx.State.Turn {
				return &rules.BeforeResult{Allow: false, Reason: "longbow: not your rook"}
			}
			if ctx.State.BoolFlag(rook.Color, longbowFlag) {
				return &rules.BeforeResult{Allow: false, Reason: "longbow already used"}
			}
			return &rules.BeforeResult{Allow: true, Transform: longbowTransform}
		},
	}
}

func longbowTransform(gs *model.GameState, mv model.Move, eng engine.Engine) error {
	rook := eng.PieceAt(gs, mv.From)
	if rook == nil || rook.Type != model.Rook {
		return errors.New("longbow: no rook at from square")
	}
	name, ok := mv.PayloadString(longbowPayload)
	if !ok {
		return errors.New("longbow: missing direction")
	}
	dir, ok := longbowDirs[name]
	if !ok {
		return errors.New("longbow: unknown direction")
	}
	if mv.From.Add(longbowRange*dir.X, longbowRange*dir.Y) != mv.To {
		return errors.New("longbow: direction does not reach target")
	}
	if eng.PieceAt(gs, mv.From.Add(dir.X, dir.Y)) != nil {
		return errors.New("longbow: line of fire blocked")
	}
	victim := eng.PieceAt(gs, mv.To)
	if victim == nil || victim.Color == rook.Color || victim.Type == model.King {
		return errors.New("longbow: no valid target")
	}
	eng.SetPieceAt(gs, mv.To, nil)
	gs.Bury(victim)
	gs.SetFlag(rook.Color, longbowFlag, true)
	gs.EnPassantTarget = nil
	return nil
}
