package fighttoken

import (
	"context"
	"sync"

	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/pkg/clock"
	"github.com/KirkDiggler/versus-api/internal/pkg/idgen"
)

// InMemoryConfig holds the configuration for the in-memory repository
type InMemoryConfig struct {
	Clock clock.Clock
	IDGen idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *InMemoryConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.IDGen == nil {
		return errors.InvalidArgument("id generator is required")
	}
	return nil
}

// InMemoryRepository implements Repository for a single server process
type InMemoryRepository struct {
	mu     sync.Mutex
	clock  clock.Clock
	idGen  idgen.Generator
	tokens map[string]*Token
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) (*InMemoryRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &InMemoryRepository{
		clock:  cfg.Clock,
		idGen:  cfg.IDGen,
		tokens: make(map[string]*Token),
	}, nil
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Issue creates a new token and supersedes the previous one
func (r *InMemoryRepository) Issue(_ context.Context, input IssueInput) (*IssueOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument(errTTLNegative)
	}

	now := r.clock.Now()
	token := &Token{
		SessionID: input.SessionID,
		Value:     r.idGen.Generate(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttlOrDefault(input.TTL)),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[input.SessionID] = token
	r.evictExpiredLocked()

	// Return a copy to prevent external modification
	issued := *token
	return &IssueOutput{Token: &issued}, nil
}

// IsLatest reports false only when a different, unexpired token is current
func (r *InMemoryRepository) IsLatest(_ context.Context, input IsLatestInput) (*IsLatestOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Token == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tokens[input.SessionID]
	if !ok {
		return &IsLatestOutput{Latest: true}, nil
	}
	if !r.clock.Now().Before(current.ExpiresAt) {
		delete(r.tokens, input.SessionID)
		return &IsLatestOutput{Latest: true}, nil
	}

	return &IsLatestOutput{Latest: current.Value == input.Token}, nil
}

// Delete forgets the session's token
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, input.SessionID)
	return &DeleteOutput{}, nil
}

// evictExpiredLocked drops expired tokens; callers must hold mu
func (r *InMemoryRepository) evictExpiredLocked() {
	now := r.clock.Now()
	for sessionID, token := range r.tokens {
		if !now.Before(token.ExpiresAt) {
			delete(r.tokens, sessionID)
		}
	}
}
