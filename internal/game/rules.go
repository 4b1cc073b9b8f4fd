// Package game implements the round state machine shared by the quiz games:
// item selection, scoring, per-round and per-session countdowns.
package game

import "brainbuzz/internal/domain"

// Selection decides how the next item is drawn from a bank.
type Selection int

const (
	// SelectRandom draws uniformly among items not yet used in the session.
	SelectRandom Selection = iota
	// SelectSequential walks the bank in order.
	SelectSequential
)

// Exhaustion decides what happens once every item of the bank was used.
type Exhaustion int

const (
	// Resample clears the used set and keeps drawing.
	Resample Exhaustion = iota
	// EndSession finishes the session after the last item.
	EndSession
)

// ScoreFunc returns the points for a correct answer given the seconds left on
// the round clock and the streak before this answer.
type ScoreFunc func(item domain.QuizItem, remaining, streak int) int

// Rules configure a controller for one game.
type Rules struct {
	Selection      Selection
	Exhaustion     Exhaustion
	RoundSeconds   int // 0 disables the per-round clock
	SessionSeconds int // 0 disables the session clock
	Score          ScoreFunc
	// Options is the number of answer options generated for items that carry
	// only an Answer (flags). Zero keeps the item's own options.
	Options int
	// WinAccuracy is the percentage of correct answers a session needs to count as won.
	WinAccuracy int
}

// Won reports whether a finished session counts as a win under r.
func (r Rules) Won(s domain.SessionStats) bool {
	return s.Correct > 0 && s.Accuracy() >= r.WinAccuracy
}

// ItemPoints awards the item's own point value.
func ItemPoints() ScoreFunc {
	return func(item domain.QuizItem, _, _ int) int {
		return item.Points
	}
}

// TimeBonus awards the item's points plus one point per divisor seconds left.
func TimeBonus(divisor int) ScoreFunc {
	return func(item domain.QuizItem, remaining, _ int) int {
		if divisor <= 0 || remaining <= 0 {
			return item.Points
		}
		return item.Points + remaining/divisor
	}
}

// StreakBonus adds bonus points once the running streak reached threshold.
func StreakBonus(threshold, bonus int) ScoreFunc {
	return func(item domain.QuizItem, _, streak int) int {
		if streak >= threshold {
			return item.Points + bonus
		}
		return item.Points
	}
}
