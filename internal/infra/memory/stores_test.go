package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"brainbuzz/internal/app"
	"brainbuzz/internal/domain"
)

type stubPlay struct {
	app.Play
	id string
}

func (s stubPlay) ID() string { return s.id }

func TestPlayRegistryLifecycle(t *testing.T) {
	reg := NewPlayRegistry()
	reg.Put(context.Background(), stubPlay{id: "p1"})
	reg.Put(context.Background(), stubPlay{id: "p2"})

	if _, ok := reg.Get("p1"); !ok {
		t.Fatalf("expected play present")
	}
	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 plays, got %d", got)
	}
	reg.Delete("p1")
	if _, ok := reg.Get("p1"); ok {
		t.Fatalf("expected play removed")
	}
}

func TestProfileStoreConcurrentResultsAllCount(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()
	id := domain.Identity{UID: "u1", DisplayName: "ana"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.ApplyResult(ctx, id, domain.ProfileDelta{Game: domain.GameFoodQuiz, Score: 5, Correct: 1, Attempted: 1})
		}()
	}
	wg.Wait()

	p, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.TotalScore != 100 || p.GamesPlayed != 20 || p.Stat(domain.GameFoodQuiz).CorrectAnswers != 20 {
		t.Fatalf("lost updates: %+v", p)
	}
	if p.Username != "ana" {
		t.Fatalf("expected profile created from identity, got %+v", p)
	}
}

func TestProfileStoreUnlockAndTop(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()
	for uid, score := range map[string]int{"a": 30, "b": 50, "c": 10} {
		if _, err := store.ApplyResult(ctx, domain.Identity{UID: uid}, domain.ProfileDelta{Game: domain.GameLogoGuesser, Score: score}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	_ = store.CreateProfile(ctx, domain.NewProfile(domain.Identity{UID: "idle"}, store.now()))

	top, err := store.Top(ctx, domain.GameLogoGuesser, domain.MetricTotalScore, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].UID != "b" || top[1].UID != "a" {
		t.Fatalf("unexpected order %+v", top)
	}

	if err := store.Unlock(ctx, "a", "first_game", "first_game"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := store.Unlock(ctx, "a", "high_scorer"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	p, _ := store.GetProfile(ctx, "a")
	if len(p.Achievements) != 2 {
		t.Fatalf("expected set union, got %v", p.Achievements)
	}
	if err := store.Unlock(ctx, "ghost", "first_game"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := store.CreateProfile(ctx, p); !errors.Is(err, domain.ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestChallengeStoreCompletesOnce(t *testing.T) {
	store := NewChallengeStore()
	ctx := context.Background()
	cs := []domain.DailyChallenge{{ID: "brain_2025-01-01", Date: "2025-01-01"}}
	_ = store.SaveChallenges(ctx, "u1", "2025-01-01", cs)
	_ = store.SaveChallenges(ctx, "u1", "2025-01-01", []domain.DailyChallenge{{ID: "other"}})

	list, _ := store.Challenges(ctx, "u1", "2025-01-01")
	if len(list) != 1 || list[0].ID != "brain_2025-01-01" {
		t.Fatalf("existing challenges must not be replaced: %+v", list)
	}
	first, _ := store.CompleteChallenge(ctx, "u1", "2025-01-01", "brain_2025-01-01")
	again, _ := store.CompleteChallenge(ctx, "u1", "2025-01-01", "brain_2025-01-01")
	if !first || again {
		t.Fatalf("expected first completion only, got %v %v", first, again)
	}
}

func TestAuthenticatorFlow(t *testing.T) {
	auth := NewAuthenticator(4)
	ctx := context.Background()

	id, err := auth.SignUp(ctx, "Ana@Example.com", "secret1", "ana")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := auth.SignUp(ctx, "ana@example.com", "other12", "ana2"); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if _, _, err := auth.SignIn(ctx, "ana@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, signed, err := auth.SignIn(ctx, "ana@example.com", "secret1")
	if err != nil || signed.UID != id.UID {
		t.Fatalf("sign in: %+v %v", signed, err)
	}
	got, err := auth.Verify(ctx, token)
	if err != nil || got.UID != id.UID {
		t.Fatalf("verify: %+v %v", got, err)
	}

	if err := auth.SignOut(ctx, id.UID); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := auth.Verify(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected revoked token, got %v", err)
	}
}

func TestLocalStatsStore(t *testing.T) {
	store := NewLocalStatsStore()
	ctx := context.Background()
	empty, _ := store.LoadLocal(ctx, "dev", domain.GameWordle)
	if empty != (domain.LocalStats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
	_ = store.SaveLocal(ctx, "dev", domain.GameWordle, domain.LocalStats{Played: 1, Won: 1})
	all, _ := store.AllLocal(ctx, "dev")
	if all[domain.GameWordle].Won != 1 {
		t.Fatalf("unexpected stats %+v", all)
	}
}

func TestLocalStatsMergeIsAtomic(t *testing.T) {
	store := NewLocalStatsStore()
	ctx := context.Background()
	res := domain.SessionResult{Game: domain.GameLogoGuesser, Stats: domain.SessionStats{Score: 8, Correct: 1, Attempted: 2}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.MergeLocal(ctx, "dev", res)
		}()
	}
	wg.Wait()

	got, _ := store.LoadLocal(ctx, "dev", domain.GameLogoGuesser)
	if got.Played != 20 || got.TotalPoints != 160 || got.Attempted != 40 {
		t.Fatalf("lost merges: %+v", got)
	}
}
