package ask

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only if it still holds our token, so a lock
// that expired and was taken by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the in-flight set across replicas. Each lock carries a TTL
// so a crashed replica cannot wedge a session forever.
type RedisGuard struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisGuard builds a guard storing locks under prefix with the given TTL.
func NewRedisGuard(client redis.UniversalClient, prefix string, ttl time.Duration, log zerolog.Logger) *RedisGuard {
	if prefix == "" {
		prefix = "docqa:inflight:"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisGuard{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (g *RedisGuard) Acquire(ctx context.Context, session string) (func(), error) {
	key := g.prefix + session
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return func() {}, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return func() {}, ErrBusy
	}
	return func() {
		// the ask's context may already be done; release on a fresh one
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, g.client, []string{key}, token).Err(); err != nil {
			g.log.Warn().Err(err).Str("key", key).Msg("release session lock")
		}
	}, nil
}

// Ping checks connectivity for readiness probes.
func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}
