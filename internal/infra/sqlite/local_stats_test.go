package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"brainbuzz/internal/domain"
)

func newStore(t *testing.T) (*LocalStatsStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "local.db")
	store, err := NewLocalStatsStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestLocalStatsRoundTripAndUpsert(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	empty, err := store.LoadLocal(ctx, "dev-1", domain.GameWordle)
	if err != nil || empty != (domain.LocalStats{}) {
		t.Fatalf("expected zero stats, got %+v err %v", empty, err)
	}

	res := domain.SessionResult{Game: domain.GameWordle, Won: true, Stats: domain.SessionStats{Score: 10, Correct: 1, Attempted: 1, Streak: 1, BestStreak: 1}}
	stats := empty.Merge(res)
	if err := store.SaveLocal(ctx, "dev-1", domain.GameWordle, stats); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveLocal(ctx, "dev-1", domain.GameWordle, stats.Merge(res)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.LoadLocal(ctx, "dev-1", domain.GameWordle)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Played != 2 || got.Won != 2 || got.Streak != 2 || got.MaxStreak != 2 || got.TotalPoints != 20 {
		t.Fatalf("unexpected stats %+v", got)
	}
}

func TestLocalStatsAreScopedPerDevice(t *testing.T) {
	store, path := newStore(t)
	ctx := context.Background()

	_ = store.SaveLocal(ctx, "dev-1", domain.GameFoodQuiz, domain.LocalStats{Played: 1})
	_ = store.SaveLocal(ctx, "dev-1", domain.GameLogoGuesser, domain.LocalStats{Played: 3})
	_ = store.SaveLocal(ctx, "dev-2", domain.GameFoodQuiz, domain.LocalStats{Played: 7})

	all, err := store.AllLocal(ctx, "dev-1")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all[domain.GameLogoGuesser].Played != 3 || all[domain.GameFoodQuiz].Played != 1 {
		t.Fatalf("unexpected stats %+v", all)
	}

	// Data survives reopening the file.
	_ = store.Close()
	reopened, err := NewLocalStatsStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, _ := reopened.LoadLocal(ctx, "dev-2", domain.GameFoodQuiz)
	if got.Played != 7 {
		t.Fatalf("expected persisted stats, got %+v", got)
	}
}

func TestMergeLocalConcurrentSessionsAllCount(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	res := domain.SessionResult{Game: domain.GameFoodQuiz, Won: true, Stats: domain.SessionStats{Score: 5, Correct: 1, Attempted: 1}}

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.MergeLocal(ctx, "dev-1", res); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("merge: %v", err)
	}

	got, err := store.LoadLocal(ctx, "dev-1", domain.GameFoodQuiz)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Played != 12 || got.Won != 12 || got.TotalPoints != 60 {
		t.Fatalf("lost merges: %+v", got)
	}
}
