// Package engine defines the base move engine capability contract the rule
// core consumes, plus the standard chess implementation of it. The rule core
// only ever talks to the Engine interface, never to Standard directly.
package engine

import "houserules/internal/model"

// PlacedPiece pairs a piece with the square it occupies.
type PlacedPiece struct {
	Piece *model.Piece
	Pos   model.Position
}

// Engine is the fixed capability surface the rule core calls into for
// standard legality and mutation primitives. Implementations must not flip
// the turn, advance the move counter, or append history inside
// ApplyStandardMove; the match driver owns those.
type Engine interface {
	IsInCheck(gs *model.GameState, color model.Color) bool
	IsLegalStandardMove(gs *model.GameState, mv model.Move) bool
	ApplyStandardMove(gs *model.GameState, mv model.Move) error
	CloneState(gs *model.GameState) *model.GameState
	PieceAt(gs *model.GameState, pos model.Position) *model.Piece
	SetPieceAt(gs *model.GameState, pos model.Position, pc *model.Piece)
	FindKing(gs *model.GameState, color model.Color) (model.Position, bool)
	AllPieces(gs *model.GameState) []PlacedPiece
	InBounds(pos model.Position) bool
}
