package fighttoken

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/pkg/clock"
	"github.com/KirkDiggler/versus-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/versus-api/internal/redis"
)

const (
	// Key pattern: fight_token:{session_id}
	tokenKeyPrefix = "fight_token:"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	IDGen  idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.IDGen == nil {
		return errors.InvalidArgument("id generator is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	idGen  idgen.Generator
}

// NewRedis creates a Redis backed token repository. Tokens survive restarts
// and are shared by every server pointed at the same Redis.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		idGen:  cfg.IDGen,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Issue(ctx context.Context, input IssueInput) (*IssueOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.TTL < 0 {
		return nil, errors.InvalidArgument(errTTLNegative)
	}

	ttl := ttlOrDefault(input.TTL)
	now := r.clock.Now()
	token := &Token{
		SessionID: input.SessionID,
		Value:     r.idGen.Generate(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	// SET overwrites, so the previous token is superseded atomically
	if err := r.client.Set(ctx, r.buildKey(input.SessionID), token.Value, ttl).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store fight token in Redis")
	}

	return &IssueOutput{Token: token}, nil
}

func (r *redisRepository) IsLatest(ctx context.Context, input IsLatestInput) (*IsLatestOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Token == "" {
		return nil, errors.InvalidArgument(errTokenEmpty)
	}

	current, err := r.client.Get(ctx, r.buildKey(input.SessionID)).Result()
	if err != nil {
		// Nothing newer was issued, the key only expired or was deleted
		if err == redis.Nil {
			return &IsLatestOutput{Latest: true}, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read fight token from Redis")
	}

	return &IsLatestOutput{Latest: current == input.Token}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	if err := r.client.Del(ctx, r.buildKey(input.SessionID)).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete fight token from Redis")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) buildKey(sessionID string) string {
	return tokenKeyPrefix + sessionID
}
