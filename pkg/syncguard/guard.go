// Package syncguard keeps two syncs of the same kind for the same user from
// running at once.
package syncguard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Guard hands out per-key locks. release must be called when acquired is true.
type Guard interface {
	TryAcquire(ctx context.Context, key string) (release func(), acquired bool)
}

// Noop always grants the lock.
type Noop struct{}

func (Noop) TryAcquire(context.Context, string) (func(), bool) {
	return func() {}, true
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGuard{rdb: rdb, ttl: ttl, logger: logger}
}

// TryAcquire takes the lock with SETNX. When Redis is unreachable the lock is
// granted so that syncing keeps working without it.
func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), bool) {
	lockKey := fmt.Sprintf("goodmorning:sync:%s", key)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		g.logger.Warn("sync lock unavailable, proceeding without it",
			zap.String("key", lockKey),
			zap.Error(err),
		)
		return func() {}, true
	}
	if !ok {
		g.logger.Info("sync already running", zap.String("key", lockKey))
		return nil, false
	}

	return func() {
		// The caller's context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.rdb, []string{lockKey}, token).Err(); err != nil {
			g.logger.Warn("failed to release sync lock", zap.String("key", lockKey), zap.Error(err))
		}
	}, true
}

// Key builds the lock key for one user and sync kind.
func Key(userID, kind string) string {
	return userID + ":" + kind
}
