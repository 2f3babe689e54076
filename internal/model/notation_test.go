package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveNotation(t *testing.T) {
	gs := NewGameState()
	// Stage a capture: white queen to d3, black pawn to e4.
	gs.SetPieceAt(Position{X: 3, Y: 5}, &Piece{ID: 90, Type: Queen, Color: White})
	gs.SetPieceAt(Position{X: 4, Y: 4}, &Piece{ID: 91, Type: Pawn, Color: Black})
	gs.SetPieceAt(Position{X: 4, Y: 5}, &Piece{ID: 92, Type: Pawn, Color: Black})

	cases := []struct {
		name string
		move Move
		want string
	}{
		{"pawn push", Move{From: Position{X: 6, Y: 6}, To: Position{X: 6, Y: 5}}, "g3"},
		{"knight jump", Move{From: Position{X: 6, Y: 7}, To: Position{X: 5, Y: 5}}, "Nf3"},
		{"queen capture", Move{From: Position{X: 3, Y: 5}, To: Position{X: 4, Y: 4}}, "Qxe4"},
		{"pawn capture keeps file", Move{From: Position{X: 3, Y: 6}, To: Position{X: 4, Y: 5}}, "dxe3"},
		{"empty from square", Move{From: Position{X: 0, Y: 4}, To: Position{X: 0, Y: 3}}, "a4a5"},
		{
			"special move",
			Move{
				From:    Position{X: 4, Y: 7},
				To:      Position{X: 4, Y: 5},
				Special: &SpecialMove{PluginID: "royal-escape"},
			},
			"[royal-escape]e1>e3",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.move.Notation(gs))
		})
	}
}
