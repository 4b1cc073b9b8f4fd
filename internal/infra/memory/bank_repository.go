package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"brainbuzz/internal/domain"
)

// BankLoader fetches a question bank from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, game domain.GameKind) (domain.Bank, error)
}

// BankRepository caches banks with TTL to avoid repeated loader hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[domain.GameKind]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.GameKind]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, game domain.GameKind) (domain.Bank, error) {
	if bank, ok := r.cached(game); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(string(game), func() (interface{}, error) {
		if bank, ok := r.cached(game); ok {
			return bank, nil
		}
		bank, err := r.loader.LoadBank(ctx, game)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[game] = cachedBank{
			bank:      bank,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) cached(game domain.GameKind) (domain.Bank, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[game]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

// ttlWithJitterLocked adds up to 10% to the TTL so entries do not expire together.
func (r *BankRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves banks from memory, e.g. the built-in catalog.
type StaticBankLoader struct {
	banks map[domain.GameKind]domain.Bank
}

func NewStaticBankLoader(banks []domain.Bank) *StaticBankLoader {
	m := make(map[domain.GameKind]domain.Bank, len(banks))
	for _, b := range banks {
		m[b.Game] = b
	}
	return &StaticBankLoader{banks: m}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, game domain.GameKind) (domain.Bank, error) {
	if bank, ok := l.banks[game]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

// FallbackBankLoader tries primary and falls back when it has no bank for the game.
type FallbackBankLoader struct {
	primary  BankLoader
	fallback BankLoader
}

func NewFallbackBankLoader(primary, fallback BankLoader) *FallbackBankLoader {
	return &FallbackBankLoader{primary: primary, fallback: fallback}
}

func (l *FallbackBankLoader) LoadBank(ctx context.Context, game domain.GameKind) (domain.Bank, error) {
	bank, err := l.primary.LoadBank(ctx, game)
	if err == nil && len(bank.Items) > 0 {
		return bank, nil
	}
	if err != nil && !errors.Is(err, domain.ErrBankNotFound) {
		return domain.Bank{}, err
	}
	return l.fallback.LoadBank(ctx, game)
}
