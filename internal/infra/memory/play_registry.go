package memory

import (
	"context"
	"sync"

	"brainbuzz/internal/app"
)

// PlayRegistry is an in-memory implementation of app.PlayRegistry.
type PlayRegistry struct {
	mu    sync.RWMutex
	plays map[string]app.Play
}

func NewPlayRegistry() *PlayRegistry {
	return &PlayRegistry{
		plays: make(map[string]app.Play),
	}
}

func (r *PlayRegistry) Put(_ context.Context, p app.Play) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays[p.ID()] = p
}

// Touch is a no-op: nothing in memory expires.
func (r *PlayRegistry) Touch(string) {}

func (r *PlayRegistry) Get(id string) (app.Play, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plays[id]
	return p, ok
}

func (r *PlayRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plays, id)
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
