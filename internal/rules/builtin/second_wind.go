package builtin

import (
	"errors"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
)

const (
	secondWindID      = "second-wind"
	secondWindFlag    = "second_wind_used"
	secondWindPayload = "pieceId"
)

func init() {
	rules.MustRegister(SecondWind())
}

// SecondWind lets each side, once per game, return its most recently
// captured piece from the graveyard to an empty square on its own back
// rank. The drop is proposed through the king: selecting the king offers
// one drop per empty back-rank square.
func SecondWind() *rules.Plugin {
	return &rules.Plugin{
		ID:          secondWindID,
		Name:        "Second Wind",
		Description: "Once per game, resurrect your most recently captured piece onto an empty back-rank square.",

		GenerateExtraMovesFunc: func(ctx rules.GenerateContext) []model.Move {
			if ctx.Piece.Type != model.King {
				return nil
			}
			color := ctx.Piece.Color
			if ctx.State.BoolFlag(color, secondWindFlag) {
				return nil
			}
			yard := ctx.State.Graveyard[color]
			if len(yard) == 0 {
				return nil
			}
			revived := yard[len(yard)-1]
			var moves []model.Move
			for x := 0; x < 8; x++ {
				target := model.Position{X: x, Y: backRank(color)}
				if ctx.Engine.PieceAt(ctx.State, target) != nil {
					continue
				}
				moves = append(moves, model.Move{
					From: ctx.Pos,
					To:   target,
					Special: &model.SpecialMove{
						PluginID: secondWindID,
						Payload:  map[string]any{secondWindPayload: revived.ID},
					},
				})
			}
			return moves
		},

		BeforeMoveApplyFunc: func(ctx rules.BeforeContext) *rules.BeforeResult {
			if !ctx.Move.OwnedBy(secondWindID) {
				return nil
			}
			king := ctx.Engine.PieceAt(ctx.State, ctx.Move.From)
			if king == nil || king.Type != model.King || king.Color != ctx.State.Turn {
				return &rules.BeforeResult{Allow: false, Reason: "second wind: not your king"}
			}
			if ctx.State.BoolFlag(king.Color, secondWindFlag) {
				return &rules.BeforeResult{Allow: false, Reason: "second wind already used"}
			}
			if _, ok := ctx.Move.PayloadInt(secondWindPayload); !ok {
				return &rules.BeforeResult{Allow: false, Reason: "second wind: missing piece id"}
			}
			return &rules.BeforeResult{Allow: true, Transform: secondWindTransform}
		},
	}
}

func secondWindTransform(gs *model.GameState, mv model.Move, eng engine.Engine) error {
	king := eng.PieceAt(gs, mv.From)
	if king == nil || king.Type != model.King {
		return errors.New("second wind: no king at from square")
	}
	color := king.Color
	if mv.To.Y != backRank(color) || eng.PieceAt(gs, mv.To) != nil {
		return errors.New("second wind: target must be an empty back-rank square")
	}
	id, ok := mv.PayloadInt(secondWindPayload)
	if !ok {
		return errors.New("second wind: missing piece id")
	}
	revived := gs.Exhume(color, id)
	if revived == nil {
		return errors.New("second wind: piece not in graveyard")
	}
	eng.SetPieceAt(gs, mv.To, revived)
	revived.HasMoved = true
	gs.SetFlag(color, secondWindFlag, true)
	gs.EnPassantTarget = nil
	return nil
}

func backRank(color model.Color) int {
	if color == model.White {
		return 7
	}
	return 0
}
