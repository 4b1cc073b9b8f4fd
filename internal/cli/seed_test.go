package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
)

func TestReadBankFiles(t *testing.T) {
	banks, err := readBankFiles([]string{filepath.Join("..", "..", "config", "banks", "sample.yaml")})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(banks) != 2 || banks[0].Game != domain.GameFoodQuiz || banks[1].Game != domain.GameWordle {
		t.Fatalf("unexpected banks %+v", banks)
	}
	if banks[0].Items[0].Difficulty != domain.Easy || banks[0].Items[0].Options[1] != "Taco" {
		t.Fatalf("item fields not decoded: %+v", banks[0].Items[0])
	}
	cat := catalog.Default()
	for _, b := range banks {
		if err := validateBank(cat, b); err != nil {
			t.Fatalf("sample bank %s invalid: %v", b.Game, err)
		}
	}
}

func TestReadBankFilesRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("banks: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readBankFiles([]string{path}); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestValidateBank(t *testing.T) {
	cat := catalog.Default()
	cases := []struct {
		name string
		bank domain.Bank
		want error
	}{
		{"unknown game", domain.Bank{Game: "chess", Items: []domain.QuizItem{{ID: "a"}}}, domain.ErrGameNotFound},
		{"empty", domain.Bank{Game: domain.GameLogoGuesser}, domain.ErrEmptyBank},
		{"short word", domain.Bank{Game: domain.GameWordle, Items: []domain.QuizItem{{ID: "w", Answer: "CAT"}}}, domain.ErrIncompleteGuess},
	}
	for _, tc := range cases {
		if err := validateBank(cat, tc.bank); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	bad := domain.Bank{Game: domain.GameFoodQuiz, Items: []domain.QuizItem{{ID: "x", Options: []string{"a", "b"}, Correct: 2}}}
	if err := validateBank(cat, bad); err == nil {
		t.Fatalf("expected out of range correct index to fail")
	}
	dup := domain.Bank{Game: domain.GameLogoGuesser, Items: []domain.QuizItem{{ID: "x", Answer: "Go"}, {ID: "x", Answer: "Rust"}}}
	if err := validateBank(cat, dup); err == nil {
		t.Fatalf("expected duplicate ids to fail")
	}
}

func TestSetupLoggerFallsBackToInfo(t *testing.T) {
	if l := setupLogger("verbose"); l.GetLevel().String() != "info" {
		t.Fatalf("expected info level, got %s", l.GetLevel())
	}
	if l := setupLogger("debug"); l.GetLevel().String() != "debug" {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}
}
