package rules

import (
	"houserules/internal/engine"
	"houserules/internal/model"
)

// Match binds a base engine, a game state and the composite for its active
// rule. It is created once per room, mutated in place for the life of the
// game, and discarded afterwards.
//
// Calls against the same match must be serialized by the caller: the driver
// holds no lock because at most one GenerateMoves/PlayMove call is in flight
// per match at a time.
type Match struct {
	ID        string
	VsAI      bool
	Rule      *Plugin
	composite *Composite
	engine    engine.Engine
	State     *model.GameState
}

// MoveResult is the outcome of a commit attempt. A rejected move leaves the
// state byte-for-byte untouched.
type MoveResult struct {
	Ok     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// CreateMatch builds a match playing under the plugin registered as ruleID.
// An unknown rule ID fails construction outright; nothing is created.
func CreateMatch(id string, eng engine.Engine, initial *model.GameState, ruleID string, vsAI bool) (*Match, error) {
	plugin, err := Lookup(ruleID)
	if err != nil {
		return nil, err
	}
	return &Match{
		ID:        id,
		VsAI:      vsAI,
		Rule:      plugin,
		composite: NewComposite(plugin),
		engine:    eng,
		State:     initial,
	}, nil
}

// Composite exposes the match's rule composite, mainly for tests.
func (m *Match) Composite() *Composite {
	return m.composite
}

// GenerateMoves returns only the plugin-proposed extra moves for the piece
// at pos, already vetted by the composite's king-safety filter. The caller
// merges these with the base engine's standard move list; the core never
// produces a complete move list on its own. Pieces not owned by the side to
// move get nothing.
func (m *Match) GenerateMoves(pos model.Position) []model.Move {
	if !m.engine.InBounds(pos) {
		return nil
	}
	piece := m.engine.PieceAt(m.State, pos)
	if piece == nil || piece.Color != m.State.Turn {
		return nil
	}
	return m.composite.GenerateExtraMoves(m.State, pos, piece, m.engine)
}

// PlayMove runs one commit: gate, mutation (plugin transform or standard
// path), move identification, react hook, turn reconciliation, bookkeeping,
// decay hook.
func (m *Match) PlayMove(mv model.Move) MoveResult {
	res := m.composite.BeforeMoveApply(m.State, mv, m.engine)
	if !res.Allow {
		reason := res.Reason
		if reason == "" {
			reason = "rejected"
		}
		return MoveResult{Ok: false, Reason: reason}
	}

	prev := m.engine.CloneState(m.State)
	mover := m.State.Turn

	if res.Transform != nil {
		// Special-move commit path: the plugin owns the whole mutation. The
		// composite's filter already vetted king safety at proposal time.
		if err := res.Transform(m.State, mv, m.engine); err != nil {
			return MoveResult{Ok: false, Reason: err.Error()}
		}
	} else {
		if !m.engine.IsLegalStandardMove(m.State, mv) {
			return MoveResult{Ok: false, Reason: "illegal"}
		}
		if err := m.engine.ApplyStandardMove(m.State, mv); err != nil {
			return MoveResult{Ok: false, Reason: "illegal"}
		}
	}

	// Identify mover and victim by diffing pre- and post-state at the move's
	// squares. Heuristic, not a transactional log: a transform that shuffles
	// other squares reports only what happened at from/to.
	moved := m.engine.PieceAt(m.State, mv.To)
	if moved == nil {
		moved = m.engine.PieceAt(m.State, mv.From)
	}
	var captured *model.Piece
	if prevTo := prev.PieceAt(mv.To); prevTo != nil && (moved == nil || prevTo.ID != moved.ID) {
		captured = prevTo
	}

	afterCtx := &AfterContext{
		State:     m.State,
		Move:      mv,
		Moved:     moved,
		Captured:  captured,
		PrevState: prev,
		Engine:    m.engine,
	}
	m.composite.AfterMoveApply(afterCtx)

	// Turn reconciliation: an explicit override from the react hook wins,
	// a direct write of a different color is honored verbatim, anything else
	// gets the default flip.
	switch {
	case afterCtx.NextTurn != nil:
		m.State.Turn = *afterCtx.NextTurn
	case m.State.Turn != mover:
		// hook wrote Turn directly; keep it
	default:
		m.State.Turn = mover.Opposite()
	}

	m.State.MoveNumber++
	var movedSnapshot *model.Piece
	if moved != nil {
		movedSnapshot = moved.Clone()
	}
	m.State.History = append(m.State.History, model.HistoryEntry{
		Move:          mv.Clone(),
		MovedPiece:    movedSnapshot,
		CapturedPiece: captured,
	})

	m.composite.TurnStart(m.State, m.engine)

	return MoveResult{Ok: true}
}
