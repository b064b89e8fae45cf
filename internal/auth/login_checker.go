package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session::"

// DefaultTTL is the max age of a session before it is considered stale,
// even if the external auth service has not expired the redis key yet.
const DefaultTTL = 30 * 24 * time.Hour

// LoginChecker resolves session tokens against the redis store written by
// the external auth service.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (lc *LoginChecker) UserIDFromToken(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token

	userID, err := lc.redisClient.HGet(ctx, sessionKey, "user_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	if userID == "" {
		return "", ErrSessionNotFound
	}

	createdAtUnix, err := lc.redisClient.HGet(ctx, sessionKey, "created_at").Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("get session created at: %w", err)
	}

	createdAt := time.Unix(createdAtUnix, 0)
	if time.Since(createdAt) > lc.ttl {
		return "", ErrSessionNotFound
	}

	return userID, nil
}
