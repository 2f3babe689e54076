package builtin

import (
	"errors"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
)

const (
	momentumID         = "momentum"
	momentumStreakFlag = "momentum_streak"
	momentumThreshold  = 3
)

func init() {
	rules.MustRegister(Momentum())
}

// Momentum rewards sustained aggression. Consecutive captures by one side
// build a streak counter in its flag store; a quiet move resets it. At three
// the side may spend the whole streak to slide one of its pawns a single
// square in any direction onto an empty square.
func Momentum() *rules.Plugin {
	return &rules.Plugin{
		ID:          momentumID,
		Name:        "Momentum",
		Description: "Three captures in a row let you move a pawn one square in any direction, spending the streak.",

		GenerateExtraMovesFunc: func(ctx rules.GenerateContext) []model.Move {
			if ctx.Piece.Type != model.Pawn {
				return nil
			}
			color := ctx.Piece.Color
			if ctx.State.IntFlag(color, momentumStreakFlag) < momentumThreshold {
				return nil
			}
			forward := -1
			if color == model.Black {
				forward = 1
			}
			var moves []model.Move
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					// The plain forward push is already a standard move.
					if dx == 0 && dy == forward {
						continue
					}
					target := ctx.Pos.Add(dx, dy)
					if !ctx.Engine.InBounds(target) || ctx.Engine.PieceAt(ctx.State, target) != nil {
						continue
					}
					moves = append(moves, model.Move{
						From:    ctx.Pos,
						To:      target,
						Special: &model.SpecialMove{PluginID: momentumID},
					})
				}
			}
			return moves
		},

		BeforeMoveApplyFunc: func(ctx rules.BeforeContext) *rules.BeforeResult {
			if !ctx.Move.OwnedBy(momentumID) {
				return nil
			}
			pawn := ctx.Engine.PieceAt(ctx.State, ctx.Move.From)
			if pawn == nil || pawn.Type != model.Pawn || pawn.Color != ctx.State.Turn {
				return &rules.BeforeResult{Allow: false, Reason: "momentum: not your pawn"}
			}
			if ctx.State.IntFlag(pawn.Color, momentumStreakFlag) < momentumThreshold {
				return &rules.BeforeResult{Allow: false, Reason: "momentum: streak not ready"}
			}
			return &rules.BeforeResult{Allow: true, Transform: momentumTransform}
		},

		AfterMoveApplyFunc: func(ctx *rules.AfterContext) {
			if ctx.Moved == nil {
				return
			}
			color := ctx.Moved.Color
			if ctx.Captured != nil {
				ctx.State.SetFlag(color, momentumStreakFlag, ctx.State.IntFlag(color, momentumStreakFlag)+1)
			} else if ctx.State.IntFlag(color, momentumStreakFlag) > 0 {
				ctx.State.RemoveFlag(color, momentumStreakFlag)
			}
		},
	}
}

func momentumTransform(gs *model.GameState, mv model.Move, eng engine.Engine) error {
	pawn := eng.PieceAt(gs, mv.From)
	if pawn == nil || pawn.Type != model.Pawn {
		return errors.New("momentum: no pawn at from square")
	}
	if abs(mv.To.X-mv.From.X) > 1 || abs(mv.To.Y-mv.From.Y) > 1 {
		return errors.New("momentum: target out of range")
	}
	if !eng.InBounds(mv.To) || eng.PieceAt(gs, mv.To) != nil {
		return errors.New("momentum: target square occupied")
	}
	eng.SetPieceAt(gs, mv.From, nil)
	eng.SetPieceAt(gs, mv.To, pawn)
	pawn.HasMoved = true
	if mv.To.Y == 0 || mv.To.Y == 7 {
		pawn.Type = model.Queen
	}
	gs.RemoveFlag(pawn.Color, momentumStreakFlag)
	gs.EnPassantTarget = nil
	return nil
}
