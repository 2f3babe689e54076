package rules

import (
	"houserules/internal/engine"
	"houserules/internal/model"
)

// Composite fans a single logical rule-evaluation step out across the active
// plugins. Today a match runs exactly one plugin; the fan-out keeps the
// design open to stacking several.
//
// The composite owns the one cross-plugin guarantee of the core: no extra
// move it returns can be played while leaving the mover's own king in check.
type Composite struct {
	plugins []*Plugin
}

func NewComposite(plugins ...*Plugin) *Composite {
	return &Composite{plugins: plugins}
}

func (c *Composite) Plugins() []*Plugin {
	return c.plugins
}

// GenerateExtraMoves concatenates every plugin's proposals for the piece at
// pos, then filters them through a simulation: clone the state, run the gate
// against the clone (applying the gate's transform when one is declared),
// and keep the move only if the mover's king is not left in check.
//
// Candidates whose gate declares no transform are checked against the
// unmutated clone. That admits moves whose safety depends on a mutation
// deferred to commit time; a plugin proposing such a move is responsible for
// its own king safety. Built-in plugins all declare transforms.
func (c *Composite) GenerateExtraMoves(gs *model.GameState, pos model.Position, piece *model.Piece, eng engine.Engine) []model.Move {
	var candidates []model.Move
	for _, p := range c.plugins {
		candidates = append(candidates, p.GenerateExtraMoves(GenerateContext{
			State:  gs,
			Pos:    pos,
			Piece:  piece,
			Engine: eng,
		})...)
	}
	if len(candidates) == 0 {
		return nil
	}

	kept := make([]model.Move, 0, len(candidates))
	for _, mv := range candidates {
		clone := eng.CloneState(gs)
		res := c.BeforeMoveApply(clone, mv, eng)
		if !res.Allow {
			continue
		}
		if res.Transform != nil {
			if err := res.Transform(clone, mv, eng); err != nil {
				continue
			}
		}
		if eng.IsInCheck(clone, piece.Color) {
			continue
		}
		kept = append(kept, mv)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// BeforeMoveApply asks each plugin in registration order and returns the
// first explicit answer, chain-of-responsibility style. When no plugin
// claims the move the composite answers "not mine, defer to standard
// legality".
func (c *Composite) BeforeMoveApply(gs *model.GameState, mv model.Move, eng engine.Engine) BeforeResult {
	for _, p := range c.plugins {
		if res := p.BeforeMoveApply(BeforeContext{State: gs, Move: mv, Engine: eng}); res != nil {
			return *res
		}
	}
	return BeforeResult{Allow: true}
}

// AfterMoveApply fans out to every plugin unconditionally; react hooks are
// side-effect-only and never short-circuit.
func (c *Composite) AfterMoveApply(ctx *AfterContext) {
	for _, p := range c.plugins {
		p.AfterMoveApply(ctx)
	}
}

// TurnStart fans out to every plugin unconditionally.
func (c *Composite) TurnStart(gs *model.GameState, eng engine.Engine) {
	for _, p := range c.plugins {
		p.TurnStart(TurnContext{State: gs, Engine: eng})
	}
}
