package service

import (
	"fmt"

	"houserules/internal/model"
	"houserules/internal/rules"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// MatchService is the thin façade the controllers talk to.
type MatchService struct {
	matchManager *MatchManager
}

func NewMatchService(matchManager *MatchManager) *MatchService {
	return &MatchService{
		matchManager: matchManager,
	}
}

// Rules lists the registered house rules for lobby display. Which rule a
// room plays under stays the creator's (or the queue's) choice.
func (ms *MatchService) Rules() []RuleInfo {
	plugins := rules.Registered()
	infos := make([]RuleInfo, len(plugins))
	for i, p := range plugins {
		infos[i] = RuleInfo{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	return infos
}

func (ms *MatchService) CreateMatch(ruleID string, vsAI bool) (string, error) {
	matchID := uuid.New().String()
	if err := ms.matchManager.CreateMatch(matchID, ruleID, vsAI); err != nil {
		return "", fmt.Errorf("failed to create match: %w", err)
	}
	return matchID, nil
}

func (ms *MatchService) JoinMatch(matchID, playerID string) (model.Color, error) {
	return ms.matchManager.AddPlayerToMatch(matchID, playerID)
}

func (ms *MatchService) GetState(matchID string) (RoomState, error) {
	return ms.matchManager.GetState(matchID)
}

func (ms *MatchService) GenerateMoves(matchID string, pos model.Position) (PieceMoves, error) {
	return ms.matchManager.GenerateMoves(matchID, pos)
}

func (ms *MatchService) HandleMove(matchID, playerID string, mv model.Move) (rules.MoveResult, error) {
	return ms.matchManager.MakeMove(matchID, playerID, mv)
}

func (ms *MatchService) Resign(matchID, playerID string) error {
	return ms.matchManager.Resign(matchID, playerID)
}

func (ms *MatchService) JoinMatchmaking(playerID, ruleID string) error {
	return ms.matchManager.JoinMatchmaking(playerID, ruleID)
}

func (ms *MatchService) RegisterConnection(matchID, playerID string, conn *websocket.Conn) error {
	return ms.matchManager.RegisterConnection(matchID, playerID, conn)
}

func (ms *MatchService) UnregisterConnection(matchID, playerID string) {
	ms.matchManager.UnregisterConnection(matchID, playerID)
}

func (ms *MatchService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	ms.matchManager.RegisterMatchmakingChannel(playerID, ch)
}

func (ms *MatchService) UnregisterMatchmakingChannel(playerID string) {
	ms.matchManager.UnregisterMatchmakingChannel(playerID)
}
