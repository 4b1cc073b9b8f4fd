package memory

import (
	"context"
	"sync"

	"brainbuzz/internal/domain"
)

// LocalStatsStore keeps device stats in memory; used when no SQLite path is configured.
type LocalStatsStore struct {
	mu    sync.RWMutex
	stats map[string]map[domain.GameKind]domain.LocalStats
}

func NewLocalStatsStore() *LocalStatsStore {
	return &LocalStatsStore{stats: make(map[string]map[domain.GameKind]domain.LocalStats)}
}

func (s *LocalStatsStore) LoadLocal(_ context.Context, device string, game domain.GameKind) (domain.LocalStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[device][game], nil
}

func (s *LocalStatsStore) SaveLocal(_ context.Context, device string, game domain.GameKind, stats domain.LocalStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats[device] == nil {
		s.stats[device] = make(map[domain.GameKind]domain.LocalStats)
	}
	s.stats[device][game] = stats
	return nil
}

func (s *LocalStatsStore) MergeLocal(_ context.Context, device string, res domain.SessionResult) (domain.LocalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stats[device] == nil {
		s.stats[device] = make(map[domain.GameKind]domain.LocalStats)
	}
	merged := s.stats[device][res.Game].Merge(res)
	s.stats[device][res.Game] = merged
	return merged, nil
}

func (s *LocalStatsStore) AllLocal(_ context.Context, device string) (map[domain.GameKind]domain.LocalStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.GameKind]domain.LocalStats, len(s.stats[device]))
	for k, v := range s.stats[device] {
		out[k] = v
	}
	return out, nil
}

// ChallengeStore keeps daily challenges in memory.
type ChallengeStore struct {
	mu   sync.Mutex
	days map[string][]domain.DailyChallenge // uid/date
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{days: make(map[string][]domain.DailyChallenge)}
}

func challengeKey(uid, date string) string { return uid + "/" + date }

func (s *ChallengeStore) Challenges(_ context.Context, uid, date string) ([]domain.DailyChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DailyChallenge(nil), s.days[challengeKey(uid, date)]...), nil
}

func (s *ChallengeStore) SaveChallenges(_ context.Context, uid, date string, cs []domain.DailyChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := challengeKey(uid, date)
	if len(s.days[key]) == 0 {
		s.days[key] = append([]domain.DailyChallenge(nil), cs...)
	}
	return nil
}

func (s *ChallengeStore) CompleteChallenge(_ context.Context, uid, date, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.days[challengeKey(uid, date)]
	for i := range list {
		if list[i].ID == id {
			if list[i].Completed {
				return false, nil
			}
			list[i].Completed = true
			return true, nil
		}
	}
	return false, nil
}
