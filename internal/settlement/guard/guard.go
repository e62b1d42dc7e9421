// Package guard serializes settlement recalculations. The pipeline is not
// cancelable (store reads are not individually interruptible), so overlap is
// prevented by refusing the trigger instead: one recalculation per period at
// a time, across instances when redis is configured.
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type Guard struct {
	client *redis.Client
	script *redis.Script

	mu   sync.Mutex
	held map[string]struct{}
}

// New builds a guard. A nil client degrades to the in-process busy flag,
// which is sufficient for a single instance.
func New(client *redis.Client) *Guard {
	g := &Guard{held: make(map[string]struct{})}
	if client != nil {
		g.client = client
		g.script = redis.NewScript(lockReleaseScript)
	}
	return g
}

// TryAcquire attempts to take the period's recalculation slot. When it
// returns ok, the caller must invoke release exactly once.
func (g *Guard) TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error) {
	g.mu.Lock()
	if _, busy := g.held[key]; busy {
		g.mu.Unlock()
		return nil, false, nil
	}
	g.held[key] = struct{}{}
	g.mu.Unlock()

	releaseLocal := func() {
		g.mu.Lock()
		delete(g.held, key)
		g.mu.Unlock()
	}

	if g.client == nil {
		return releaseLocal, true, nil
	}

	token := uuid.NewString()
	acquired, err := g.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		releaseLocal()
		return nil, false, err
	}
	if !acquired {
		releaseLocal()
		return nil, false, nil
	}

	return func() {
		// Token-guarded delete so an expired lock taken over by another
		// instance is never released from here.
		_ = g.script.Run(context.Background(), g.client, []string{key}, token).Err()
		releaseLocal()
	}, true, nil
}
