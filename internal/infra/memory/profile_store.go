package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"brainbuzz/internal/domain"
)

// ProfileStore keeps profiles in a map. Updates run under one mutex, which
// makes ApplyResult and Unlock atomic.
type ProfileStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	profiles map[string]domain.UserProfile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		now:      time.Now,
		profiles: make(map[string]domain.UserProfile),
	}
}

func (s *ProfileStore) CreateProfile(_ context.Context, p domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.UID]; ok {
		return domain.ErrProfileExists
	}
	s.profiles[p.UID] = p
	return nil
}

func (s *ProfileStore) GetProfile(_ context.Context, uid string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[uid]
	if !ok {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileStore) ApplyResult(_ context.Context, id domain.Identity, d domain.ProfileDelta) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id.UID]
	if !ok {
		p = domain.NewProfile(id, s.now())
	}
	p = p.Apply(d)
	s.profiles[id.UID] = p
	return p, nil
}

func (s *ProfileStore) Unlock(_ context.Context, uid string, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[uid]
	if !ok {
		return domain.ErrProfileNotFound
	}
	s.profiles[uid] = p.Unlock(ids...)
	return nil
}

func (s *ProfileStore) Top(_ context.Context, game domain.GameKind, metric domain.Metric, limit int) ([]domain.UserProfile, error) {
	s.mu.RLock()
	out := make([]domain.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.Value(game, metric) > 0 {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].Value(game, metric), out[j].Value(game, metric)
		if vi != vj {
			return vi > vj
		}
		return out[i].UID < out[j].UID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
