package model

import (
	"fmt"
	"sync"
	"time"
)

type QueuedPlayer struct {
	Player   Player
	RuleID   string
	JoinedAt time.Time
}

// Queue is the matchmaking queue. Players are paired oldest-first; the rule
// a paired match plays under is the earlier-queued player's choice.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player, ruleID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return fmt.Errorf("player already in queue")
		}
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		RuleID:   ruleID,
		JoinedAt: time.Now(),
	})
	return nil
}

// GetNextPair pops the two players who have been waiting longest, along with
// the rule ID their match should be created with.
func (q *Queue) GetNextPair() (Player, Player, string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	first := q.players[0]
	second := q.players[1]
	q.players = q.players[2:]

	return first.Player, second.Player, first.RuleID
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
