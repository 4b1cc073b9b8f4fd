package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brainbuzz/internal/domain"
)

// ChallengeStore keeps daily challenges in Redis:
//
//	SET  challenges:{uid}:{date}      {json list}  NX EX ttl
//	SADD challenges:{uid}:{date}:done {id}
//
// Both keys expire, so old days clean themselves up.
type ChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultChallengeTTL keeps a day's challenges past the UTC day boundary of every time zone.
const DefaultChallengeTTL = 48 * time.Hour

func NewChallengeStore(client *redis.Client, ttl time.Duration) *ChallengeStore {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &ChallengeStore{client: client, ttl: ttl}
}

func (s *ChallengeStore) Challenges(ctx context.Context, uid, date string) ([]domain.DailyChallenge, error) {
	blob, err := s.client.Get(ctx, challengesKey(uid, date)).Bytes()
	if isNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get challenges: %w", err)
	}
	var list []domain.DailyChallenge
	if err := json.Unmarshal(blob, &list); err != nil {
		return nil, fmt.Errorf("decode challenges: %w", err)
	}

	done, err := s.client.SMembers(ctx, doneKey(uid, date)).Result()
	if err != nil {
		return nil, fmt.Errorf("get completed challenges: %w", err)
	}
	completed := make(map[string]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}
	for i := range list {
		list[i].Completed = list[i].Completed || completed[list[i].ID]
	}
	return list, nil
}

func (s *ChallengeStore) SaveChallenges(ctx context.Context, uid, date string, cs []domain.DailyChallenge) error {
	blob, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	if err := s.client.SetNX(ctx, challengesKey(uid, date), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("save challenges: %w", err)
	}
	return nil
}

func (s *ChallengeStore) CompleteChallenge(ctx context.Context, uid, date, id string) (bool, error) {
	list, err := s.Challenges(ctx, uid, date)
	if err != nil {
		return false, err
	}
	known := false
	for _, c := range list {
		known = known || c.ID == id
	}
	if !known {
		return false, nil
	}

	key := doneKey(uid, date)
	pipe := s.client.TxPipeline()
	added := pipe.SAdd(ctx, key, id)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("complete challenge: %w", err)
	}
	return added.Val() == 1, nil
}

func challengesKey(uid, date string) string {
	return "challenges:" + uid + ":" + date
}

func doneKey(uid, date string) string {
	return challengesKey(uid, date) + ":done"
}
