package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"houserules/internal/engine"
	"houserules/internal/model"
	"houserules/internal/rules"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MatchFoundEvent tells a queued player which room to join and which seat
// they got.
type MatchFoundEvent struct {
	MatchID string      `json:"matchId"`
	Color   model.Color `json:"color"`
	RuleID  string      `json:"ruleId"`
}

// MatchManager owns every live room, the matchmaking queue and the pending
// matchmaking notification channels. One shared Standard engine serves all
// rooms; it is stateless.
type MatchManager struct {
	rooms            map[string]*Room
	eng              *engine.Standard
	queue            *model.Queue
	matchingChannels map[string]chan string
	clockTime        time.Duration
	mu               sync.RWMutex
}

func NewMatchManager(clockTime time.Duration) *MatchManager {
	mm := &MatchManager{
		rooms:            make(map[string]*Room),
		eng:              engine.NewStandard(),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockTime:        clockTime,
	}
	go mm.processMatchmaking()
	return mm
}

// CreateMatch builds a room around a fresh match playing under ruleID. An
// unknown rule fails the whole creation; no room is left behind.
func (mm *MatchManager) CreateMatch(matchID, ruleID string, vsAI bool) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if _, exists := mm.rooms[matchID]; exists {
		return errors.New("match already exists")
	}
	match, err := rules.CreateMatch(matchID, mm.eng, model.NewGameState(), ruleID, vsAI)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	mm.rooms[matchID] = NewRoom(matchID, match, mm.eng, mm.clockTime)
	log.Info().Str("match", matchID).Str("rule", ruleID).Bool("vsAI", vsAI).Msg("match created")
	return nil
}

func (mm *MatchManager) GetRoom(matchID string) (*Room, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	room, exists := mm.rooms[matchID]
	if !exists {
		return nil, errors.New("match not found")
	}
	return room, nil
}

func (mm *MatchManager) AddPlayerToMatch(matchID, playerID string) (model.Color, error) {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return "", err
	}
	return room.AddPlayer(playerID)
}

func (mm *MatchManager) MakeMove(matchID, playerID string, mv model.Move) (rules.MoveResult, error) {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return rules.MoveResult{}, err
	}
	return room.MakeMove(playerID, mv)
}

func (mm *MatchManager) Resign(matchID, playerID string) error {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return err
	}
	return room.Resign(playerID)
}

func (mm *MatchManager) GenerateMoves(matchID string, pos model.Position) (PieceMoves, error) {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return PieceMoves{}, err
	}
	return room.GenerateMoves(pos), nil
}

func (mm *MatchManager) GetState(matchID string) (RoomState, error) {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return RoomState{}, err
	}
	return room.GetState(), nil
}

func (mm *MatchManager) RegisterConnection(matchID, playerID string, conn *websocket.Conn) error {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return err
	}
	return room.RegisterConnection(playerID, conn)
}

func (mm *MatchManager) UnregisterConnection(matchID, playerID string) {
	room, err := mm.GetRoom(matchID)
	if err != nil {
		return
	}
	room.UnregisterConnection(playerID)
}

func (mm *MatchManager) JoinMatchmaking(playerID, ruleID string) error {
	if _, err := rules.Lookup(ruleID); err != nil {
		return err
	}
	return mm.queue.AddPlayer(model.Player{ID: playerID}, ruleID)
}

func (mm *MatchManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if existing, exists := mm.matchingChannels[playerID]; exists {
		delete(mm.matchingChannels, playerID)
		close(existing)
	}
	mm.matchingChannels[playerID] = ch
}

func (mm *MatchManager) UnregisterMatchmakingChannel(playerID string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	delete(mm.matchingChannels, playerID)
}

// processMatchmaking pairs the two longest-waiting players once a second.
// The paired match plays under the earlier-queued player's rule choice.
func (mm *MatchManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if mm.queue.Size() < 2 {
			continue
		}
		player1, player2, ruleID := mm.queue.GetNextPair()

		matchID := uuid.New().String()
		if err := mm.CreateMatch(matchID, ruleID, false); err != nil {
			log.Error().Err(err).Str("rule", ruleID).Msg("matchmaking could not create match")
			continue
		}
		p1Color, err := mm.AddPlayerToMatch(matchID, player1.ID)
		if err != nil {
			log.Error().Err(err).Msg("matchmaking could not seat player")
			continue
		}
		p2Color, err := mm.AddPlayerToMatch(matchID, player2.ID)
		if err != nil {
			log.Error().Err(err).Msg("matchmaking could not seat player")
			continue
		}

		mm.mu.Lock()
		mm.notifyLocked(player1.ID, MatchFoundEvent{MatchID: matchID, Color: p1Color, RuleID: ruleID})
		mm.notifyLocked(player2.ID, MatchFoundEvent{MatchID: matchID, Color: p2Color, RuleID: ruleID})
		mm.mu.Unlock()
	}
}

func (mm *MatchManager) notifyLocked(playerID string, event MatchFoundEvent) {
	ch, ok := mm.matchingChannels[playerID]
	if !ok {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal match event")
		return
	}
	select {
	case ch <- string(payload):
		delete(mm.matchingChannels, playerID)
		close(ch)
	default:
		log.Warn().Str("player", playerID).Msg("match event dropped, channel full")
	}
}
