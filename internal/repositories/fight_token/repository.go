// Package fighttoken tracks the latest fight request per session so that
// replies from superseded requests can be recognized and discarded
package fighttoken

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=fighttokenmock github.com/KirkDiggler/versus-api/internal/repositories/fight_token Repository

// DefaultTTL is used when IssueInput.TTL is zero
const DefaultTTL = 10 * time.Minute

// Token marks one fight request within a session
type Token struct {
	SessionID string
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssueInput contains parameters for issuing a token
type IssueInput struct {
	SessionID string
	TTL       time.Duration // How long the token stays current if nothing supersedes it
}

// IssueOutput contains the newly issued token
type IssueOutput struct {
	Token *Token
}

// IsLatestInput contains parameters for checking a token
type IsLatestInput struct {
	SessionID string
	Token     string
}

// IsLatestOutput reports whether the token is still the session's newest
type IsLatestOutput struct {
	Latest bool
}

// DeleteInput contains parameters for forgetting a session
type DeleteInput struct {
	SessionID string
}

// DeleteOutput is returned by Delete
type DeleteOutput struct{}

// Repository stores the latest fight token per session
type Repository interface {
	// Issue creates a new token and makes it the session's latest, superseding any previous one
	Issue(ctx context.Context, input IssueInput) (*IssueOutput, error)

	// IsLatest reports whether token may still be applied. It is false only
	// when a different token is current; expired or unknown sessions report true.
	IsLatest(ctx context.Context, input IsLatestInput) (*IsLatestOutput, error)

	// Delete forgets the session's token
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

const (
	errSessionIDEmpty = "session ID cannot be empty"
	errTokenEmpty     = "token cannot be empty"
	errTTLNegative    = "ttl cannot be negative"
)

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return DefaultTTL
	}
	return ttl
}
