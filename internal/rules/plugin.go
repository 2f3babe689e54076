// Package rules implements the house-rule augmentation core: rule plugins,
// the composite that fans hook calls out across them, and the match driver
// that commits moves. The package never implements chess legality itself;
// that lives behind the engine.Engine contract.
package rules

import (
	"houserules/internal/engine"
	"houserules/internal/model"
)

// GenerateContext is handed to the extra-move hook when the UI asks what a
// piece can do beyond its standard repertoire.
type GenerateContext struct {
	State  *model.GameState
	Pos    model.Position
	Piece  *model.Piece
	Engine engine.Engine
}

// BeforeContext is handed to the gate hook before a move commits.
type BeforeContext struct {
	State  *model.GameState
	Move   model.Move
	Engine engine.Engine
}

// Transform is a plugin-supplied board mutation that fully replaces the
// standard commit path for a special move. A transform must validate before
// it mutates: returning an error after partial mutation would break the
// no-op-on-rejection guarantee.
type Transform func(gs *model.GameState, mv model.Move, eng engine.Engine) error

// BeforeResult is a gate hook's answer. A plugin that does not recognize the
// move must return nil instead, deferring to the next plugin and ultimately
// to standard legality.
type BeforeResult struct {
	Allow     bool
	Reason    string
	Transform Transform
}

// AfterContext is handed to the react hook after a move has committed.
// Moved and Captured are identified by diffing the pre- and post-commit
// boards at the move's squares; PrevState is a deep clone of the state as it
// was before the commit.
//
// Setting NextTurn overrides the driver's default alternation verbatim:
// pointing it at the mover's own color grants a bonus turn. Writing
// State.Turn directly is honored too when the written value differs from the
// mover's color.
type AfterContext struct {
	State     *model.GameState
	Move      model.Move
	Moved     *model.Piece
	Captured  *model.Piece
	PrevState *model.GameState
	Engine    engine.Engine
	NextTurn  *model.Color
}

// KeepTurn asks the driver to leave the turn with the side that just moved.
func (ctx *AfterContext) KeepTurn() {
	if ctx.Moved != nil {
		color := ctx.Moved.Color
		ctx.NextTurn = &color
	}
}

// TurnContext is handed to the decay hook at the start of each turn.
type TurnContext struct {
	State  *model.GameState
	Engine engine.Engine
}

// Plugin is one independently authored house rule. All four hooks are
// optional. A plugin must be stateless: the same instance serves every match
// concurrently, so any persistent effect lives in GameState flags or piece
// tags, never in variables the hooks close over.
type Plugin struct {
	ID          string
	Name        string
	Description string

	// Grant: propose candidate moves beyond the base engine's repertoire.
	GenerateExtraMovesFunc func(GenerateContext) []model.Move
	// Gate: approve/deny a move and optionally substitute its mutation.
	BeforeMoveApplyFunc func(BeforeContext) *BeforeResult
	// React: trigger consequences of a move just committed.
	AfterMoveApplyFunc func(*AfterContext)
	// Decay: age or expire tagged/flagged state each turn start.
	TurnStartFunc func(TurnContext)
}

// GenerateExtraMoves invokes the grant hook if present.
func (p *Plugin) GenerateExtraMoves(ctx GenerateContext) []model.Move {
	if p.GenerateExtraMovesFunc == nil {
		return nil
	}
	return p.GenerateExtraMovesFunc(ctx)
}

// BeforeMoveApply invokes the gate hook if present. A nil return means the
// plugin does not claim the move.
func (p *Plugin) BeforeMoveApply(ctx BeforeContext) *BeforeResult {
	if p.BeforeMoveApplyFunc == nil {
		return nil
	}
	return p.BeforeMoveApplyFunc(ctx)
}

// AfterMoveApply invokes the react hook if present.
func (p *Plugin) AfterMoveApply(ctx *AfterContext) {
	if p.AfterMoveApplyFunc != nil {
		p.AfterMoveApplyFunc(ctx)
	}
}

// TurnStart invokes the decay hook if present.
func (p *Plugin) TurnStart(ctx TurnContext) {
	if p.TurnStartFunc != nil {
		p.TurnStartFunc(ctx)
	}
}
