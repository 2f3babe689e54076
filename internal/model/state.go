package model

// Board is the 8x8 grid, addressed board[y][x]. Black's back rank sits at
// y=0, white's at y=7, matching the client's render orientation.
type Board [8][8]*Piece

// GameState is the complete mutable state of one match. It is owned by
// exactly one Match and must never be aliased between matches.
//
// Flags is the durable per-side store plugins use for cross-turn bookkeeping
// (one-shot markers, streak counters). Keys are plugin-chosen strings; the
// core imposes no schema. Once a flag records a consumed one-shot ability it
// stays set for the life of the match unless the owning plugin itself clears
// it.
//
// Graveyard holds each color's own captured pieces: a captured piece goes to
// the captured side's graveyard, not the capturer's.
type GameState struct {
	Board           Board                    `json:"board"`
	Turn            Color                    `json:"turn"`
	MoveNumber      int                      `json:"moveNumber"`
	History         []HistoryEntry           `json:"history"`
	Flags           map[Color]map[string]any `json:"flags"`
	Graveyard       map[Color][]*Piece       `json:"graveyard"`
	EnPassantTarget *Position                `json:"enPassantTarget"`
}

// NewGameState sets up the standard starting position. Piece IDs are
// assigned once here and stay stable for the whole match.
func NewGameState() *GameState {
	gs := &GameState{
		Turn:       White,
		MoveNumber: 0,
		History:    make([]HistoryEntry, 0),
		Flags: map[Color]map[string]any{
			White: {},
			Black: {},
		},
		Graveyard: map[Color][]*Piece{
			White: {},
			Black: {},
		},
	}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	nextID := 1
	place := func(pt PieceType, color Color, x, y int) {
		gs.Board[y][x] = &Piece{
			ID:       nextID,
			Type:     pt,
			Color:    color,
			Position: Position{X: x, Y: y},
		}
		nextID++
	}
	for x, pt := range backRank {
		place(pt, Black, x, 0)
		place(Pawn, Black, x, 1)
		place(Pawn, White, x, 6)
		place(pt, White, x, 7)
	}
	return gs
}

func (gs *GameState) PieceAt(pos Position) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return gs.Board[pos.Y][pos.X]
}

// SetPieceAt places (or clears, with nil) a piece and keeps its Position
// field in sync with its square.
func (gs *GameState) SetPieceAt(pos Position, pc *Piece) {
	if !pos.InBounds() {
		return
	}
	gs.Board[pos.Y][pos.X] = pc
	if pc != nil {
		pc.Position = pos
	}
}

func (gs *GameState) SetFlag(color Color, key string, value any) {
	if gs.Flags == nil {
		gs.Flags = make(map[Color]map[string]any)
	}
	if gs.Flags[color] == nil {
		gs.Flags[color] = make(map[string]any)
	}
	gs.Flags[color][key] = value
}

func (gs *GameState) Flag(color Color, key string) (any, bool) {
	v, ok := gs.Flags[color][key]
	return v, ok
}

func (gs *GameState) BoolFlag(color Color, key string) bool {
	v, _ := gs.Flags[color][key].(bool)
	return v
}

func (gs *GameState) IntFlag(color Color, key string) int {
	switch v := gs.Flags[color][key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (gs *GameState) RemoveFlag(color Color, key string) {
	delete(gs.Flags[color], key)
}

// Bury moves a captured piece into its own color's graveyard.
func (gs *GameState) Bury(pc *Piece) {
	if pc == nil {
		return
	}
	if gs.Graveyard == nil {
		gs.Graveyard = make(map[Color][]*Piece)
	}
	gs.Graveyard[pc.Color] = append(gs.Graveyard[pc.Color], pc)
}

// Exhume removes the piece with the given ID from color's graveyard and
// returns it, or nil when no such piece is buried there.
func (gs *GameState) Exhume(color Color, id int) *Piece {
	yard := gs.Graveyard[color]
	for i, pc := range yard {
		if pc.ID == id {
			gs.Graveyard[color] = append(yard[:i:i], yard[i+1:]...)
			return pc
		}
	}
	return nil
}

// Clone is a full deep copy: board pieces, tags, flags, graveyards and
// history. Simulation (the king-safety filter) depends on this being
// complete; a shallow copy would let a simulated transform corrupt the live
// game.
func (gs *GameState) Clone() *GameState {
	clone := &GameState{
		Turn:       gs.Turn,
		MoveNumber: gs.MoveNumber,
	}
	for y := range gs.Board {
		for x, pc := range gs.Board[y] {
			clone.Board[y][x] = pc.Clone()
		}
	}
	if gs.History != nil {
		clone.History = make([]HistoryEntry, len(gs.History))
		for i, entry := range gs.History {
			clone.History[i] = HistoryEntry{
				Move:          entry.Move.Clone(),
				MovedPiece:    entry.MovedPiece.Clone(),
				CapturedPiece: entry.CapturedPiece.Clone(),
			}
		}
	}
	if gs.Flags != nil {
		clone.Flags = make(map[Color]map[string]any, len(gs.Flags))
		for color, flags := range gs.Flags {
			cloned := make(map[string]any, len(flags))
			for k, v := range flags {
				cloned[k] = cloneValue(v)
			}
			clone.Flags[color] = cloned
		}
	}
	if gs.Graveyard != nil {
		clone.Graveyard = make(map[Color][]*Piece, len(gs.Graveyard))
		for color, yard := range gs.Graveyard {
			cloned := make([]*Piece, len(yard))
			for i, pc := range yard {
				cloned[i] = pc.Clone()
			}
			clone.Graveyard[color] = cloned
		}
	}
	if gs.EnPassantTarget != nil {
		target := *gs.EnPassantTarget
		clone.EnPassantTarget = &target
	}
	return clone
}

// cloneValue deep-copies flag/tag/payload values. Plugins store JSON-shaped
// data (scalars, nested maps and slices), never pointer identity.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		cloned := make(map[string]any, len(val))
		for k, inner := range val {
			cloned[k] = cloneValue(inner)
		}
		return cloned
	case []any:
		cloned := make([]any, len(val))
		for i, inner := range val {
			cloned[i] = cloneValue(inner)
		}
		return cloned
	default:
		return val
	}
}
