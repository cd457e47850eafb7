package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository tracks sessions ended before their natural expiry.
type SessionRepository interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type redisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository stores revoked session ids with a TTL.
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client, prefix: "session:revoked:"}
}

func (r *redisSessionRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.prefix+sessionID, "1", ttl).Err()
}

func (r *redisSessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := r.client.Get(ctx, r.prefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
