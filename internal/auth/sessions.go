package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/omtii/marketplace/internal/config"
)

// Sign-out works by denylisting the token's jti in Redis until the token
// would have expired anyway. Tokens stay stateless otherwise.

var sessions *redis.Client

// InitSessions connects the Redis client used for token revocation.
func InitSessions(cfg config.RedisConfig, logger *zap.Logger) {
	sessions = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := sessions.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}
}

func revocationKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}

// RevokeToken denylists a token id until its natural expiry.
func RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return sessions.Set(ctx, revocationKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether the token id has been signed out. Redis
// being unreachable fails open: the token itself is still signature-checked.
func IsTokenRevoked(ctx context.Context, jti string) bool {
	if sessions == nil {
		return false
	}
	n, err := sessions.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
