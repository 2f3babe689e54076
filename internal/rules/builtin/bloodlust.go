package builtin

import (
	"houserules/internal/rules"
)

const (
	bloodlustID        = "bloodlust"
	bloodlustChainFlag = "bloodlust_chain"
)

func init() {
	rules.MustRegister(Bloodlust())
}

// Bloodlust grants the capturing side an immediate bonus action. The chain
// flag guards against recursion: a capture made during the bonus action
// does not grant another one.
func Bloodlust() *rules.Plugin {
	return &rules.Plugin{
		ID:          bloodlustID,
		Name:        "Bloodlust",
		Description: "Capturing a piece grants an immediate second action. Bonus actions never chain.",

		AfterMoveApplyFunc: func(ctx *rules.AfterContext) {
			if ctx.Moved == nil {
				return
			}
			color := ctx.Moved.Color
			if ctx.State.BoolFlag(color, bloodlustChainFlag) {
				// This was the bonus action; spend the guard and let the
				// turn flip normally.
				ctx.State.RemoveFlag(color, bloodlustChainFlag)
				return
			}
			if ctx.Captured == nil {
				return
			}
			ctx.State.SetFlag(color, bloodlustChainFlag, true)
			ctx.KeepTurn()
		},
	}
}
