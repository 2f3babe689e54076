package engine

import (
	"errors"

	"houserules/internal/model"
)

// ErrNoPiece is returned by ApplyStandardMove when the from square is empty.
var ErrNoPiece = errors.New("no piece at from square")

// Standard is the full standard-chess implementation of the Engine contract:
// pseudo-move generation per piece type, king-safety filtering, castling,
// en passant and promotion. It carries no state of its own; one instance can
// serve any number of matches.
type Standard struct{}

func NewStandard() *Standard {
	return &Standard{}
}

var _ Engine = (*Standard)(nil)

func (s *Standard) InBounds(pos model.Position) bool {
	return pos.InBounds()
}

func (s *Standard) PieceAt(gs *model.GameState, pos model.Position) *model.Piece {
	return gs.PieceAt(pos)
}

func (s *Standard) SetPieceAt(gs *model.GameState, pos model.Position, pc *model.Piece) {
	gs.SetPieceAt(pos, pc)
}

func (s *Standard) CloneState(gs *model.GameState) *model.GameState {
	return gs.Clone()
}

func (s *Standard) FindKing(gs *model.GameState, color model.Color) (model.Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := gs.Board[y][x]
			if pc != nil && pc.Type == model.King && pc.Color == color {
				return model.Position{X: x, Y: y}, true
			}
		}
	}
	return model.Position{}, false
}

func (s *Standard) AllPieces(gs *model.GameState) []PlacedPiece {
	pieces := make([]PlacedPiece, 0, 32)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := gs.Board[y][x]; pc != nil {
				pieces = append(pieces, PlacedPiece{Piece: pc, Pos: model.Position{X: x, Y: y}})
			}
		}
	}
	return pieces
}

func (s *Standard) IsInCheck(gs *model.GameState, color model.Color) bool {
	kingPos, ok := s.FindKing(gs, color)
	if !ok {
		// A side with no king cannot be in check. Plugins that capture or
		// remove kings end the game at the service layer instead.
		return false
	}
	return s.isSquareAttacked(gs, color.Opposite(), kingPos)
}

var (
	rookDirs   = []model.Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []model.Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []model.Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []model.Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

func (s *Standard) isSquareAttacked(gs *model.GameState, attackingColor model.Color, position model.Position) bool {
	for _, dir := range rookDirs {
		target := position.Add(dir.X, dir.Y)
		for target.InBounds() {
			if pc := gs.PieceAt(target); pc != nil {
				if pc.Color == attackingColor && (pc.Type == model.Queen || pc.Type == model.Rook) {
					return true
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	for _, dir := range bishopDirs {
		target := position.Add(dir.X, dir.Y)
		for target.InBounds() {
			if pc := gs.PieceAt(target); pc != nil {
				if pc.Color == attackingColor && (pc.Type == model.Queen || pc.Type == model.Bishop) {
					return true
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	for _, dir := range knightDirs {
		target := position.Add(dir.X, dir.Y)
		if pc := gs.PieceAt(target); pc != nil && pc.Color == attackingColor && pc.Type == model.Knight {
			return true
		}
	}
	for _, dir := range kingDirs {
		target := position.Add(dir.X, dir.Y)
		if pc := gs.PieceAt(target); pc != nil && pc.Color == attackingColor && pc.Type == model.King {
			return true
		}
	}
	// White pawns sit one rank below (larger Y than) the squares they attack.
	pawnRank := 1
	if attackingColor == model.Black {
		pawnRank = -1
	}
	for _, dx := range []int{-1, 1} {
		target := position.Add(dx, pawnRank)
		if pc := gs.PieceAt(target); pc != nil && pc.Color == attackingColor && pc.Type == model.Pawn {
			return true
		}
	}
	return false
}

// IsLegalStandardMove reports whether mv is a legal move for the side to
// move under standard chess rules against the given state.
func (s *Standard) IsLegalStandardMove(gs *model.GameState, mv model.Move) bool {
	piece := gs.PieceAt(mv.From)
	if piece == nil || piece.Color != gs.Turn {
		return false
	}
	switch mv.Promotion {
	case "", model.Queen, model.Rook, model.Bishop, model.Knight:
	default:
		return false
	}
	for _, legal := range s.LegalMovesForPiece(gs, piece) {
		if legal.From == mv.From && legal.To == mv.To {
			return true
		}
	}
	return false
}

// ApplyStandardMove commits mv to gs: board mutation, capture burial,
// castling rook hop, en passant, promotion and the en-passant target for the
// next ply. Turn, move counter and history are left to the caller.
func (s *Standard) ApplyStandardMove(gs *model.GameState, mv model.Move) error {
	piece := gs.PieceAt(mv.From)
	if piece == nil {
		return ErrNoPiece
	}
	captured := gs.PieceAt(mv.To)

	// En passant: a pawn moving diagonally onto an empty square captures the
	// pawn that just double-stepped past it.
	if piece.Type == model.Pawn && captured == nil && mv.From.X != mv.To.X {
		if gs.EnPassantTarget != nil && *gs.EnPassantTarget == mv.To {
			victimPos := model.Position{X: mv.To.X, Y: mv.From.Y}
			captured = gs.PieceAt(victimPos)
			gs.SetPieceAt(victimPos, nil)
		}
	}

	gs.SetPieceAt(mv.From, nil)
	gs.SetPieceAt(mv.To, piece)
	piece.HasMoved = true

	// Castling: the king's two-square hop drags the rook across.
	if piece.Type == model.King && abs(mv.To.X-mv.From.X) == 2 {
		switch mv.To.X {
		case 2:
			rook := gs.PieceAt(model.Position{X: 0, Y: mv.From.Y})
			gs.SetPieceAt(model.Position{X: 0, Y: mv.From.Y}, nil)
			gs.SetPieceAt(model.Position{X: 3, Y: mv.From.Y}, rook)
			if rook != nil {
				rook.HasMoved = true
			}
		case 6:
			rook := gs.PieceAt(model.Position{X: 7, Y: mv.From.Y})
			gs.SetPieceAt(model.Position{X: 7, Y: mv.From.Y}, nil)
			gs.SetPieceAt(model.Position{X: 5, Y: mv.From.Y}, rook)
			if rook != nil {
				rook.HasMoved = true
			}
		}
	}

	if piece.Type == model.Pawn && (mv.To.Y == 0 || mv.To.Y == 7) {
		promotion := mv.Promotion
		if promotion == "" {
			promotion = model.Queen
		}
		piece.Type = promotion
	}

	if captured != nil {
		gs.Bury(captured)
	}

	// Set or clear the en-passant target for the opponent's reply.
	if piece.Type == model.Pawn && abs(mv.To.Y-mv.From.Y) == 2 {
		target := model.Position{X: mv.To.X, Y: (mv.To.Y + mv.From.Y) / 2}
		gs.EnPassantTarget = &target
	} else {
		gs.EnPassantTarget = nil
	}
	return nil
}

// LegalMovesForPiece generates the piece's pseudo-legal moves and filters
// out any that would leave its own king attacked.
func (s *Standard) LegalMovesForPiece(gs *model.GameState, piece *model.Piece) []model.Move {
	var pseudo []model.Move
	switch piece.Type {
	case model.Pawn:
		pseudo = s.pawnMoves(gs, piece)
	case model.Knight:
		pseudo = s.stepMoves(gs, piece, knightDirs)
	case model.Bishop:
		pseudo = s.slideMoves(gs, piece, bishopDirs)
	case model.Rook:
		pseudo = s.slideMoves(gs, piece, rookDirs)
	case model.Queen:
		pseudo = append(s.slideMoves(gs, piece, bishopDirs), s.slideMoves(gs, piece, rookDirs)...)
	case model.King:
		pseudo = s.kingMoves(gs, piece)
	}
	legal := make([]model.Move, 0, len(pseudo))
	for _, mv := range pseudo {
		clone := gs.Clone()
		if err := s.ApplyStandardMove(clone, mv); err != nil {
			continue
		}
		if !s.IsInCheck(clone, piece.Color) {
			legal = append(legal, mv)
		}
	}
	return legal
}

// LegalMovesForColor concatenates every legal standard move for one side.
func (s *Standard) LegalMovesForColor(gs *model.GameState, color model.Color) []model.Move {
	var moves []model.Move
	for _, placed := range s.AllPieces(gs) {
		if placed.Piece.Color == color {
			moves = append(moves, s.LegalMovesForPiece(gs, placed.Piece)...)
		}
	}
	return moves
}

func (s *Standard) HasAnyLegalMove(gs *model.GameState, color model.Color) bool {
	for _, placed := range s.AllPieces(gs) {
		if placed.Piece.Color == color && len(s.LegalMovesForPiece(gs, placed.Piece)) > 0 {
			return true
		}
	}
	return false
}

func (s *Standard) pawnMoves(gs *model.GameState, piece *model.Piece) []model.Move {
	moves := []model.Move{}
	dy := -1
	if piece.Color == model.Black {
		dy = 1
	}
	from := piece.Position

	forward := from.Add(0, dy)
	if forward.InBounds() && gs.PieceAt(forward) == nil {
		moves = append(moves, model.Move{From: from, To: forward})
		double := from.Add(0, 2*dy)
		if !piece.HasMoved && double.InBounds() && gs.PieceAt(double) == nil {
			moves = append(moves, model.Move{From: from, To: double})
		}
	}
	for _, dx := range []int{-1, 1} {
		target := from.Add(dx, dy)
		if !target.InBounds() {
			continue
		}
		if pc := gs.PieceAt(target); pc != nil && pc.Color != piece.Color {
			moves = append(moves, model.Move{From: from, To: target})
		} else if pc == nil && gs.EnPassantTarget != nil && *gs.EnPassantTarget == target {
			moves = append(moves, model.Move{From: from, To: target})
		}
	}
	return moves
}

func (s *Standard) stepMoves(gs *model.GameState, piece *model.Piece, dirs []model.Position) []model.Move {
	moves := []model.Move{}
	for _, dir := range dirs {
		target := piece.Position.Add(dir.X, dir.Y)
		if !target.InBounds() {
			continue
		}
		if pc := gs.PieceAt(target); pc == nil || pc.Color != piece.Color {
			moves = append(moves, model.Move{From: piece.Position, To: target})
		}
	}
	return moves
}

func (s *Standard) slideMoves(gs *model.GameState, piece *model.Piece, dirs []model.Position) []model.Move {
	moves := []model.Move{}
	for _, dir := range dirs {
		target := piece.Position.Add(dir.X, dir.Y)
		for target.InBounds() {
			pc := gs.PieceAt(target)
			if pc == nil {
				moves = append(moves, model.Move{From: piece.Position, To: target})
			} else {
				if pc.Color != piece.Color {
					moves = append(moves, model.Move{From: piece.Position, To: target})
				}
				break
			}
			target = target.Add(dir.X, dir.Y)
		}
	}
	return moves
}

func (s *Standard) kingMoves(gs *model.GameState, piece *model.Piece) []model.Move {
	moves := s.stepMoves(gs, piece, kingDirs)
	if piece.HasMoved || s.isSquareAttacked(gs, piece.Color.Opposite(), piece.Position) {
		return moves
	}
	y := piece.Position.Y
	// Queenside: rook on the a-file, b/c/d empty, king does not cross an
	// attacked square.
	if rook := gs.PieceAt(model.Position{X: 0, Y: y}); rook != nil && rook.Type == model.Rook && !rook.HasMoved {
		if gs.PieceAt(model.Position{X: 1, Y: y}) == nil &&
			gs.PieceAt(model.Position{X: 2, Y: y}) == nil &&
			gs.PieceAt(model.Position{X: 3, Y: y}) == nil &&
			!s.isSquareAttacked(gs, piece.Color.Opposite(), model.Position{X: 3, Y: y}) &&
			!s.isSquareAttacked(gs, piece.Color.Opposite(), model.Position{X: 2, Y: y}) {
			moves = append(moves, model.Move{From: piece.Position, To: model.Position{X: 2, Y: y}})
		}
	}
	// Kingside: rook on the h-file, f/g empty.
	if rook := gs.PieceAt(model.Position{X: 7, Y: y}); rook != nil && rook.Type == model.Rook && !rook.HasMoved {
		if gs.PieceAt(model.Position{X: 5, Y: y}) == nil &&
			gs.PieceAt(model.Position{X: 6, Y: y}) == nil &&
			!s.isSquareAttacked(gs, piece.Color.Opposite(), model.Position{X: 5, Y: y}) &&
			!s.isSquareAttacked(gs, piece.Color.Opposite(), model.Position{X: 6, Y: y}) {
			moves = append(moves, model.Move{From: piece.Position, To: model.Position{X: 6, Y: y}})
		}
	}
	return moves
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
