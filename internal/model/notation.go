package model

import "fmt"

// Notation renders a move in simple algebraic form against the state it is
// about to be played on. Special moves are rendered with the owning plugin's
// ID as a prefix since they fall outside standard notation.
func (m Move) Notation(gs *GameState) string {
	if m.IsSpecial() {
		return fmt.Sprintf("[%s]%s>%s", m.Special.PluginID, m.From.getSquareNotation(), m.To.getSquareNotation())
	}
	piece := gs.PieceAt(m.From)
	if piece == nil {
		return m.From.getSquareNotation() + m.To.getSquareNotation()
	}
	prefix := piece.Type.getPieceNotation()
	capture := ""
	if gs.PieceAt(m.To) != nil {
		capture = "x"
	}
	pawnFile := ""
	if piece.Type == Pawn && m.From.X != m.To.X {
		pawnFile = m.From.getFileNotation()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, pawnFile, capture, m.To.getSquareNotation())
}
