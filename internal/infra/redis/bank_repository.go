package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"brainbuzz/internal/domain"
)

// BankLoader fetches a question bank from a backing store (Postgres or the built-in catalog).
type BankLoader interface {
	LoadBank(ctx context.Context, game domain.GameKind) (domain.Bank, error)
}

// BankRepository caches banks in Redis and falls back to a loader on cache miss.
// A bank is stored as one JSON document: SET bank:{game} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, game domain.GameKind) (domain.Bank, error) {
	if bank, ok := r.cached(ctx, game); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(string(game), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, game); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, game)
		if err != nil {
			return domain.Bank{}, err
		}
		if blob, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, bankKey(game), blob, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// Invalidate drops the cached bank so the next read goes to the loader.
func (r *BankRepository) Invalidate(ctx context.Context, game domain.GameKind) error {
	if err := r.client.Del(ctx, bankKey(game)).Err(); err != nil {
		return fmt.Errorf("invalidate bank %s: %w", game, err)
	}
	return nil
}

func (r *BankRepository) cached(ctx context.Context, game domain.GameKind) (domain.Bank, bool) {
	blob, err := r.client.Get(ctx, bankKey(game)).Bytes()
	if err != nil {
		return domain.Bank{}, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(blob, &bank); err != nil || len(bank.Items) == 0 {
		return domain.Bank{}, false
	}
	return bank, true
}

func bankKey(game domain.GameKind) string {
	return "bank:" + string(game)
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
