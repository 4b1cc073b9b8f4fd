// Package achievement holds the static unlock rules and the tracker that
// persists newly earned achievements.
package achievement

import "brainbuzz/internal/domain"

// Achievement is one unlockable badge. Predicate must be pure.
type Achievement struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Icon        string                        `json:"icon"`
	Predicate   func(domain.UserProfile) bool `json:"-"`
}

var rules = []Achievement{
	{
		ID:          "first_game",
		Name:        "First Steps",
		Description: "Play your first game",
		Icon:        "🎮",
		Predicate:   func(p domain.UserProfile) bool { return p.GamesPlayed >= 1 },
	},
	{
		ID:          "wordle_winner",
		Name:        "Word Wizard",
		Description: "Win your first WordBuzz game",
		Icon:        "📝",
		Predicate:   func(p domain.UserProfile) bool { return p.Stat(domain.GameWordle).GamesWon >= 1 },
	},
	{
		ID:          "wordle_streak_5",
		Name:        "On Fire!",
		Description: "Get a 5-game winning streak in WordBuzz",
		Icon:        "🔥",
		Predicate:   func(p domain.UserProfile) bool { return p.Stat(domain.GameWordle).CurrentStreak >= 5 },
	},
	{
		ID:          "brain_genius",
		Name:        "Brain Genius",
		Description: "Answer 50 brain challenge questions correctly",
		Icon:        "🧠",
		Predicate: func(p domain.UserProfile) bool {
			return p.Stat(domain.GameBrainChallenges).CorrectAnswers >= 50
		},
	},
	{
		ID:          "speed_demon",
		Name:        "Speed Demon",
		Description: "Average under 5 seconds per brain challenge question",
		Icon:        "⚡",
		Predicate: func(p domain.UserProfile) bool {
			avg := p.Stat(domain.GameBrainChallenges).AvgAnswerMillis()
			return avg > 0 && avg < 5000
		},
	},
	{
		ID:          "flag_master",
		Name:        "Flag Master",
		Description: "Win 10 flag guesser games",
		Icon:        "🌍",
		Predicate:   func(p domain.UserProfile) bool { return p.Stat(domain.GameFlagGuesser).GamesWon >= 10 },
	},
	{
		ID:          "high_scorer",
		Name:        "High Scorer",
		Description: "Reach 1000 total points",
		Icon:        "🏆",
		Predicate:   func(p domain.UserProfile) bool { return p.TotalScore >= 1000 },
	},
	{
		ID:          "dedicated_player",
		Name:        "Dedicated Player",
		Description: "Play 100 games",
		Icon:        "🎯",
		Predicate:   func(p domain.UserProfile) bool { return p.GamesPlayed >= 100 },
	},
}

// All returns the rule table in display order.
func All() []Achievement {
	return append([]Achievement(nil), rules...)
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range rules {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the achievements the profile satisfies but has not unlocked yet.
func Evaluate(p domain.UserProfile) []Achievement {
	var out []Achievement
	for _, a := range rules {
		if p.HasAchievement(a.ID) {
			continue
		}
		if a.Predicate(p) {
			out = append(out, a)
		}
	}
	return out
}

// Status pairs an achievement with whether a profile has unlocked it.
type Status struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

// Statuses lists every achievement with its unlocked flag for p.
func Statuses(p domain.UserProfile) []Status {
	out := make([]Status, 0, len(rules))
	for _, a := range rules {
		out = append(out, Status{Achievement: a, Unlocked: p.HasAchievement(a.ID)})
	}
	return out
}
