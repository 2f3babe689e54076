package model

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = time.Now()
		c.isRunning = true
		log.Debug().Time("at", c.lastStarted).Msg("clock started")
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= time.Since(c.lastStarted)
		c.isRunning = false
		log.Debug().Dur("timeLeft", c.timeLeft).Msg("clock stopped")
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - time.Since(c.lastStarted)
	}
	return c.timeLeft
}
