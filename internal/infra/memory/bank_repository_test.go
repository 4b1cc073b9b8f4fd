package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brainbuzz/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader([]domain.Bank{sampleBank()})}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), domain.GameFoodQuiz); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.GetBank(context.Background(), domain.GameFoodQuiz); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
}

func TestBankRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader([]domain.Bank{sampleBank()})}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBank(context.Background(), domain.GameFoodQuiz)
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), domain.GameFoodQuiz)
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestBankRepositoryUnknownGame(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), time.Minute)
	if _, err := repo.GetBank(context.Background(), domain.GameLogoGuesser); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestFallbackBankLoader(t *testing.T) {
	primary := NewStaticBankLoader([]domain.Bank{{Game: domain.GameFoodQuiz, Items: []domain.QuizItem{{ID: "stored"}}}})
	fallback := NewStaticBankLoader([]domain.Bank{sampleBank(), {Game: domain.GameLogoGuesser, Items: []domain.QuizItem{{ID: "builtin"}}}})
	loader := NewFallbackBankLoader(primary, fallback)

	bank, err := loader.LoadBank(context.Background(), domain.GameFoodQuiz)
	if err != nil || bank.Items[0].ID != "stored" {
		t.Fatalf("expected stored bank, got %+v err %v", bank, err)
	}
	bank, err = loader.LoadBank(context.Background(), domain.GameLogoGuesser)
	if err != nil || bank.Items[0].ID != "builtin" {
		t.Fatalf("expected builtin bank, got %+v err %v", bank, err)
	}
}

type countingLoader struct {
	BankLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, game domain.GameKind) (domain.Bank, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.BankLoader.LoadBank(ctx, game)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleBank() domain.Bank {
	return domain.Bank{
		Game: domain.GameFoodQuiz,
		Items: []domain.QuizItem{
			{ID: "pizza", Prompt: "🍕", PromptKind: domain.PromptEmoji, Options: []string{"Pizza", "Burger"}, Correct: 0, Difficulty: domain.Easy, Points: 10},
		},
	}
}
