package builtin

import (
	"houserules/internal/model"
	"houserules/internal/rules"
)

const (
	fatigueID  = "fatigue"
	fatigueTag = "fatigue_ttl"
	// fatigueTurns counts the owner's own turn-starts before the tag
	// expires; the queen is blocked while the tag is present.
	fatigueTurns = 2
)

func init() {
	rules.MustRegister(Fatigue())
}

// Fatigue makes capturing queens tire out: after a queen takes a piece she
// carries a countdown tag and may not move until it expires. The tag is
// decremented once per turn-start of her own side and removed entirely at
// zero, so an idle piece never carries a stale empty tag map.
func Fatigue() *rules.Plugin {
	return &rules.Plugin{
		ID:          fatigueID,
		Name:        "Fatigue",
		Description: "A queen that captures is exhausted and must sit out her side's next turn.",

		BeforeMoveApplyFunc: func(ctx rules.BeforeContext) *rules.BeforeResult {
			if ctx.Move.IsSpecial() {
				return nil
			}
			piece := ctx.Engine.PieceAt(ctx.State, ctx.Move.From)
			if piece == nil || !piece.HasTag(fatigueTag) {
				return nil
			}
			return &rules.BeforeResult{Allow: false, Reason: "piece is fatigued"}
		},

		AfterMoveApplyFunc: func(ctx *rules.AfterContext) {
			if ctx.Captured == nil || ctx.Moved == nil || ctx.Moved.Type != model.Queen {
				return
			}
			ctx.Moved.SetTag(fatigueTag, fatigueTurns)
		},

		TurnStartFunc: func(ctx rules.TurnContext) {
			for _, placed := range ctx.Engine.AllPieces(ctx.State) {
				piece := placed.Piece
				if piece.Color != ctx.State.Turn {
					continue
				}
				ttl, ok := piece.IntTag(fatigueTag)
				if !ok {
					continue
				}
				ttl--
				if ttl <= 0 {
					piece.RemoveTag(fatigueTag)
				} else {
					piece.SetTag(fatigueTag, ttl)
				}
			}
		},
	}
}
