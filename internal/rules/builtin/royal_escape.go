package builtin

import (
	"errors"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
)

const (
	royalEscapeID   = "royal-escape"
	royalEscapeFlag = "royal_escape_used"
)

func init() {
	rules.MustRegister(RoyalEscape())
}

// RoyalEscape lets each side teleport its king once per game to any empty
// square at most two squares away. Consumption is permanent: the used flag
// is never cleared.
func RoyalEscape() *rules.Plugin {
	return &rules.Plugin{
		ID:          royalEscapeID,
		Name:        "Royal Escape",
		Description: "Once per game, your king may teleport to any empty square within two squares.",

		GenerateExtraMovesFunc: func(ctx rules.GenerateContext) []model.Move {
			if ctx.Piece.Type != model.King {
				return nil
			}
			if ctx.State.BoolFlag(ctx.Piece.Color, royalEscapeFlag) {
				return nil
			}
			var moves []model.Move
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					// Single steps are already standard king moves.
					if abs(dx) <= 1 && abs(dy) <= 1 {
						continue
					}
					target := ctx.Pos.Add(dx, dy)
					if !ctx.Engine.InBounds(target) || ctx.Engine.PieceAt(ctx.State, target) != nil {
						continue
					}
					moves = append(moves, model.Move{
						From:    ctx.Pos,
						To:      target,
						Special: &model.SpecialMove{PluginID: royalEscapeID},
					})
				}
			}
			return moves
		},

		BeforeMoveApplyFunc: func(ctx rules.BeforeContext) *rules.BeforeResult {
			if !ctx.Move.OwnedBy(royalEscapeID) {
				return nil
			}
			king := ctx.Engine.PieceAt(ctx.State, ctx.Move.From)
			if king == nil || king.Type != model.King || king.Color != ctx.State.Turn {
				return &rules.BeforeResult{Allow: false, Reason: "royal escape: not your king"}
			}
			if ctx.State.BoolFlag(king.Color, royalEscapeFlag) {
				return &rules.BeforeResult{Allow: false, Reason: "royal escape already used"}
			}
			return &rules.BeforeResult{Allow: true, Transform: royalEscapeTransform}
		},
	}
}

func royalEscapeTransform(gs *model.GameState, mv model.Move, eng engine.Engine) error {
	king := eng.PieceAt(gs, mv.From)
	if king == nil || king.Type != model.King {
		return errors.New("royal escape: no king at from square")
	}
	if !eng.InBounds(mv.To) || eng.PieceAt(gs, mv.To) != nil {
		return errors.New("royal escape: target square occupied")
	}
	if abs(mv.To.X-mv.From.X) > 2 || abs(mv.To.Y-mv.From.Y) > 2 {
		return errors.New("royal escape: target out of range")
	}
	eng.SetPieceAt(gs, mv.From, nil)
	eng.SetPieceAt(gs, mv.To, king)
	king.HasMoved = true
	gs.SetFlag(king.Color, royalEscapeFlag, true)
	gs.EnPassantTarget = nil
	return nil
}
