package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// Position addresses a board square. X grows toward the h-file, Y grows
// toward black's back rank at the top of the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}
