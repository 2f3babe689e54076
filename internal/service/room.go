package service

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"
	"houserules/internal/ws"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// RoomConnections holds the live WebSocket connections for one room.
type RoomConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewRoomConnections() *RoomConnections {
	return &RoomConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Room hosts a single match: the rule-augmented core, the two seats, the
// clocks and the observers. The room's mutex serializes GenerateMoves and
// PlayMove against the match, which the core requires.
type Room struct {
	ID          string
	mu          sync.Mutex
	match       *rules.Match
	eng         *engine.Standard
	white       model.ClientPlayer
	black       model.ClientPlayer
	whiteClock  *model.Clock
	blackClock  *model.Clock
	connections *RoomConnections
	isCheck     bool
	resolve     *string
	lastMove    *model.Move
	lastAction  string
}

// RoomState is the wire snapshot pushed to clients.
type RoomState struct {
	MatchID    string           `json:"matchId"`
	Rule       RuleInfo         `json:"rule"`
	VsAI       bool             `json:"vsAI"`
	Game       *model.GameState `json:"game"`
	IsCheck    bool             `json:"isCheck"`
	Resolve    *string          `json:"resolve"`
	LastMove   *model.Move      `json:"lastMove"`
	Players    RoomPlayers      `json:"players"`
	LastAction string           `json:"lastAction,omitempty"`
}

type RoomPlayers struct {
	White model.ClientPlayer `json:"white"`
	Black model.ClientPlayer `json:"black"`
}

// RuleInfo is the catalogue entry for one registered plugin.
type RuleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PieceMoves is the per-square move listing: the base engine's standard
// moves and the active rule's vetted extra moves, kept separate so the
// client merges them itself.
type PieceMoves struct {
	Standard []model.Move `json:"standard"`
	Extra    []model.Move `json:"extra"`
}

func NewRoom(id string, match *rules.Match, eng *engine.Standard, clockTime time.Duration) *Room {
	return &Room{
		ID:          id,
		match:       match,
		eng:         eng,
		connections: NewRoomConnections(),
		whiteClock:  model.NewClock(clockTime),
		blackClock:  model.NewClock(clockTime),
	}
}

func (r *Room) AddPlayer(playerID string) (model.Color, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.white.ID == "" {
		r.white = model.ClientPlayer{ID: playerID, Color: model.White}
		return model.White, nil
	}
	if r.black.ID == "" {
		r.black = model.ClientPlayer{ID: playerID, Color: model.Black}
		return model.Black, nil
	}
	return "", errors.New("room is full")
}

func (r *Room) playerColor(playerID string) (model.Color, bool) {
	if r.white.ID != "" && r.white.ID == playerID {
		return model.White, true
	}
	if r.black.ID != "" && r.black.ID == playerID {
		return model.Black, true
	}
	return "", false
}

func (r *Room) IsPlayerInRoom(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.playerColor(playerID)
	return ok
}

func (r *Room) CanSpectate() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.white.ID == "" || r.black.ID == ""
}

// MakeMove commits a move on behalf of playerID. A rejection is not an
// error: the caller gets the MoveResult and the room stays untouched.
func (r *Room) MakeMove(playerID string, mv model.Move) (rules.MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolve != nil {
		return rules.MoveResult{}, errors.New("game is over")
	}
	color, ok := r.playerColor(playerID)
	if !ok {
		return rules.MoveResult{}, errors.New("player not in room")
	}
	if color != r.match.State.Turn {
		return rules.MoveResult{}, errors.New("not your turn")
	}

	// Notation reads the pre-commit board to spot captures.
	notation := mv.Notation(r.match.State)

	res := r.match.PlayMove(mv)
	if !res.Ok {
		log.Debug().Str("room", r.ID).Str("reason", res.Reason).Msg("move rejected")
		return res, nil
	}
	r.lastAction = notation
	log.Debug().Str("room", r.ID).Str("move", notation).Msg("move played")

	r.clockFor(color).Stop()
	r.clockFor(r.match.State.Turn).Start()
	r.white.TimeLeft = int(r.whiteClock.GetTimeLeft().Milliseconds() / 100)
	r.black.TimeLeft = int(r.blackClock.GetTimeLeft().Milliseconds() / 100)

	moved := mv
	r.lastMove = &moved
	r.updateResolution()

	go r.broadcastState()
	return res, nil
}

// Resign ends the game in favor of the resigning player's opponent.
func (r *Room) Resign(playerID string) error {
	r.mu.Lock()

	if r.resolve != nil {
		r.mu.Unlock()
		return errors.New("game is over")
	}
	color, ok := r.playerColor(playerID)
	if !ok {
		r.mu.Unlock()
		return errors.New("player not in room")
	}

	result := string(color) + "_resigned"
	r.resolve = &result
	r.whiteClock.Stop()
	r.blackClock.Stop()
	r.mu.Unlock()

	log.Info().Str("room", r.ID).Str("player", playerID).Msg("player resigned")
	go r.broadcastState()
	return nil
}

func (r *Room) clockFor(color model.Color) *model.Clock {
	if color == model.White {
		return r.whiteClock
	}
	return r.blackClock
}

// updateResolution derives check/checkmate/stalemate for the side to move.
// A side whose king has left the board (a plugin effect standard chess
// cannot produce) loses outright.
func (r *Room) updateResolution() {
	toMove := r.match.State.Turn
	if _, ok := r.eng.FindKing(r.match.State, toMove); !ok {
		result := "kingless"
		r.resolve = &result
		return
	}
	r.isCheck = r.eng.IsInCheck(r.match.State, toMove)
	if r.hasAnyMove(toMove) {
		return
	}
	if r.isCheck {
		result := "checkmate"
		r.resolve = &result
	} else {
		result := "stalemate"
		r.resolve = &result
	}
}

// hasAnyMove considers both standard moves and rule-granted extra moves: a
// side with no standard move but a playable special move is not mated.
func (r *Room) hasAnyMove(color model.Color) bool {
	if r.eng.HasAnyLegalMove(r.match.State, color) {
		return true
	}
	for _, placed := range r.eng.AllPieces(r.match.State) {
		if placed.Piece.Color != color {
			continue
		}
		if len(r.match.GenerateMoves(placed.Pos)) > 0 {
			return true
		}
	}
	return false
}

// GenerateMoves lists what the piece at pos can do: the standard repertoire
// and the active rule's extra moves, separately.
func (r *Room) GenerateMoves(pos model.Position) PieceMoves {
	r.mu.Lock()
	defer r.mu.Unlock()

	moves := PieceMoves{Standard: []model.Move{}, Extra: []model.Move{}}
	piece := r.eng.PieceAt(r.match.State, pos)
	if piece == nil || piece.Color != r.match.State.Turn || r.resolve != nil {
		return moves
	}
	moves.Standard = r.eng.LegalMovesForPiece(r.match.State, piece)
	if extra := r.match.GenerateMoves(pos); extra != nil {
		moves.Extra = extra
	}
	return moves
}

// GetState snapshots the room for the wire. The game state is deep-cloned
// so callers can serialize it without racing the next move.
func (r *Room) GetState() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() RoomState {
	return RoomState{
		MatchID: r.match.ID,
		Rule: RuleInfo{
			ID:          r.match.Rule.ID,
			Name:        r.match.Rule.Name,
			Description: r.match.Rule.Description,
		},
		VsAI:       r.match.VsAI,
		Game:       r.match.State.Clone(),
		IsCheck:    r.isCheck,
		Resolve:    r.resolve,
		LastMove:   r.lastMove,
		Players:    RoomPlayers{White: r.white, Black: r.black},
		LastAction: r.lastAction,
	}
}

func (r *Room) RegisterConnection(playerID string, conn *websocket.Conn) error {
	r.mu.Lock()
	authorized := false
	if _, ok := r.playerColor(playerID); ok {
		authorized = true
	} else if r.white.ID == "" || r.black.ID == "" {
		authorized = true
	}
	r.mu.Unlock()

	if !authorized {
		return errors.New("not authorized to join this room")
	}

	r.connections.mu.Lock()
	if _, exists := r.connections.connections[playerID]; exists {
		r.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	r.connections.connections[playerID] = conn
	r.connections.mu.Unlock()
	log.Debug().Str("room", r.ID).Str("player", playerID).Msg("connection registered")

	go r.broadcastState()
	return nil
}

func (r *Room) UnregisterConnection(playerID string) {
	r.connections.mu.Lock()
	defer r.connections.mu.Unlock()
	delete(r.connections.connections, playerID)
}

func (r *Room) broadcastState() {
	r.mu.Lock()
	state := r.snapshotLocked()
	r.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Str("room", r.ID).Msg("failed to marshal room state")
		return
	}

	r.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(r.connections.connections))
	for playerID, conn := range r.connections.connections {
		active[playerID] = conn
	}
	r.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warn().Err(err).Str("room", r.ID).Str("player", playerID).Msg("failed to push state")
			r.connections.mu.Lock()
			delete(r.connections.connections, playerID)
			r.connections.mu.Unlock()
		}
	}
}
