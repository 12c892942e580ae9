package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

// DefaultCapacity bounds how many turns are retained.
const DefaultCapacity = 500

var ErrAgentRequired = errors.New("agent id is required")

// Turn is one recorded assistant exchange.
type Turn struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agentId"`
	AgentVersion string    `json:"agentVersion"`
	Context      string    `json:"context,omitempty"`
	UserMessage  string    `json:"userMessage"`
	Suggestion   string    `json:"suggestion"`
	Fallback     string    `json:"fallback,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service keeps the most recent turns in memory.
type Service struct {
	mu       sync.RWMutex
	turns    []Turn
	capacity int
	log      zerolog.Logger
}

// NewService returns an audit log retaining at most capacity turns.
func NewService(capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{
		turns:    make([]Turn, 0, 64),
		capacity: capacity,
		log:      logger.Component("audit"),
	}
}

// Record stores a turn, assigning its ID and timestamp.
func (s *Service) Record(_ context.Context, turn Turn) error {
	if turn.AgentID == "" {
		return ErrAgentRequired
	}

	turn.ID = uuid.NewString()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	if over := len(s.turns) - s.capacity; over > 0 {
		s.turns = append(s.turns[:0:0], s.turns[over:]...)
	}
	s.mu.Unlock()

	s.log.Info().
		Str("turn_id", turn.ID).
		Str("agent_id", turn.AgentID).
		Str("agent_version", turn.AgentVersion).
		Str("fallback", turn.Fallback).
		Msg("assistant turn")
	return nil
}

// List returns up to limit turns, newest first. limit <= 0 returns all retained turns.
func (s *Service) List(_ context.Context, limit int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.turns)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Turn, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.turns[i])
	}
	return out
}
