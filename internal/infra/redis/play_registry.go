package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"brainbuzz/internal/app"
)

// markerTimeout bounds every liveness write so a Redis outage cannot stall a play.
const markerTimeout = 2 * time.Second

// PlayRegistry is a Redis-aware implementation of app.PlayRegistry.
// Plays keep their timers and subscribers in process, so the map stays local;
// Redis holds a liveness marker per play (play:{id} -> game) that other
// instances and operators can count. Touch keeps the marker alive for plays
// without a clock.
type PlayRegistry struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	plays   map[string]app.Play
	touched map[string]time.Time

	// serialises marker writes so a late refresh never recreates a deleted marker
	markerMu sync.Mutex
}

func NewPlayRegistry(client *redis.Client, ttl time.Duration) *PlayRegistry {
	return &PlayRegistry{
		client:  client,
		ttl:     ttl,
		timeout: markerTimeout,
		now:     time.Now,
		plays:   make(map[string]app.Play),
		touched: make(map[string]time.Time),
	}
}

func (r *PlayRegistry) Put(ctx context.Context, p app.Play) {
	r.mu.Lock()
	r.plays[p.ID()] = p
	r.touched[p.ID()] = r.now()
	r.mu.Unlock()

	r.markerMu.Lock()
	defer r.markerMu.Unlock()
	r.setMarker(ctx, p)
}

// Touch refreshes the marker of a live play. Refreshes closer together than
// a quarter of the TTL are skipped.
func (r *PlayRegistry) Touch(id string) {
	r.markerMu.Lock()
	defer r.markerMu.Unlock()

	r.mu.Lock()
	p, ok := r.plays[id]
	due := ok && r.now().Sub(r.touched[id]) >= r.ttl/4
	if due {
		r.touched[id] = r.now()
	}
	r.mu.Unlock()
	if due {
		r.setMarker(context.Background(), p)
	}
}

func (r *PlayRegistry) Get(id string) (app.Play, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plays[id]
	return p, ok
}

func (r *PlayRegistry) Delete(id string) {
	r.markerMu.Lock()
	defer r.markerMu.Unlock()

	r.mu.Lock()
	delete(r.plays, id)
	delete(r.touched, id)
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	_ = r.client.Del(ctx, playKey(id)).Err()
}

func (r *PlayRegistry) All() []app.Play {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]app.Play, 0, len(r.plays))
	for _, p := range r.plays {
		out = append(out, p)
	}
	return out
}

// setMarker writes the marker with a fresh TTL; it is best effort.
// Set rather than Expire, so a marker lost during an outage comes back.
func (r *PlayRegistry) setMarker(ctx context.Context, p app.Play) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_ = r.client.Set(ctx, playKey(p.ID()), string(p.Game()), r.ttl).Err()
}

func playKey(id string) string {
	return "play:" + id
}
