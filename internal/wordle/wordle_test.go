package wordle

import (
	"errors"
	"reflect"
	"testing"

	"brainbuzz/internal/domain"
)

func TestEvaluateMarksEachPosition(t *testing.T) {
	cases := []struct {
		target, guess string
		want          []Status
	}{
		{"BRAIN", "BRAWN", []Status{StatusCorrect, StatusCorrect, StatusCorrect, StatusAbsent, StatusCorrect}},
		{"BRAIN", "BRAIN", []Status{StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect}},
		{"BRAIN", "NAIRB", []Status{StatusPresent, StatusPresent, StatusPresent, StatusPresent, StatusPresent}},
		// both Ls are claimed by exact matches, so the leading L has nothing left
		{"HELLO", "LOLLY", []Status{StatusAbsent, StatusPresent, StatusCorrect, StatusCorrect, StatusAbsent}},
		{"SPEED", "ERASE", []Status{StatusPresent, StatusAbsent, StatusAbsent, StatusPresent, StatusPresent}},
		{"BOOKS", "OTTOS", []Status{StatusPresent, StatusAbsent, StatusAbsent, StatusPresent, StatusCorrect}},
	}
	for _, tc := range cases {
		got := Evaluate(tc.target, tc.guess)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Evaluate(%s, %s) = %v, want %v", tc.target, tc.guess, got, tc.want)
		}
	}
}

func TestGuessRejectsBadWordsWithoutUsingARow(t *testing.T) {
	g, err := New("brain")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := g.Guess("BRA"); !errors.Is(err, domain.ErrIncompleteGuess) {
		t.Fatalf("expected ErrIncompleteGuess, got %v", err)
	}
	if _, err := g.Guess("BR4IN"); !errors.Is(err, domain.ErrInvalidLetters) {
		t.Fatalf("expected ErrInvalidLetters, got %v", err)
	}
	if g.GuessesUsed() != 0 || len(g.Rows()) != 0 {
		t.Fatalf("rejected guesses consumed a row: %d", g.GuessesUsed())
	}
}

func TestWinOnThirdGuess(t *testing.T) {
	g, _ := New("BRAIN")
	for _, w := range []string{"STUDY", "brawn"} {
		res, err := g.Guess(w)
		if err != nil {
			t.Fatalf("guess %s: %v", w, err)
		}
		if res.State != Playing || res.Target != "" {
			t.Fatalf("game should still be running: %+v", res)
		}
	}
	res, err := g.Guess("BRAIN")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if res.State != Won || res.GuessesUsed != 3 || res.Row != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Target != "BRAIN" {
		t.Fatalf("target should be revealed, got %q", res.Target)
	}
	if _, err := g.Guess("SMART"); !errors.Is(err, domain.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded after win, got %v", err)
	}
	stats := g.Stats()
	if stats.Score != WinPoints || stats.Correct != 1 || stats.Attempted != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestLossAfterSixGuesses(t *testing.T) {
	g, _ := New("BRAIN")
	var res GuessResult
	for i := 0; i < MaxRows; i++ {
		var err error
		res, err = g.Guess("QUICK")
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	if res.State != Lost || res.Target != "BRAIN" {
		t.Fatalf("expected loss revealing target, got %+v", res)
	}
	stats := g.Stats()
	if stats.Score != 0 || stats.Correct != 0 || stats.Attempted != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestKeyboardKeepsBestStatus(t *testing.T) {
	g, _ := New("BRAIN")
	if _, err := g.Guess("NOTES"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if got := g.Keyboard()["N"]; got != StatusPresent {
		t.Fatalf("expected N present, got %s", got)
	}
	if _, err := g.Guess("BRAWN"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	kb := g.Keyboard()
	if kb["N"] != StatusCorrect || kb["W"] != StatusAbsent || kb["O"] != StatusAbsent {
		t.Fatalf("unexpected keyboard %v", kb)
	}
	if _, err := g.Guess("SNAIL"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if got := g.Keyboard()["N"]; got != StatusCorrect {
		t.Fatalf("a weaker status must not downgrade N, got %s", got)
	}
}
