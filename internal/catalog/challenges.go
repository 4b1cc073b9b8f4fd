package catalog

import (
	"time"

	"brainbuzz/internal/domain"
)

// ChallengeTemplate generates one daily challenge and decides whether a
// session completes it.
type ChallengeTemplate struct {
	Prefix      string
	Game        domain.GameKind
	Title       string
	Description string
	Target      int
	Reward      int
	Met         func(res domain.SessionResult, target int) bool
}

var challengeTemplates = []ChallengeTemplate{
	{
		Prefix:      "wordle",
		Game:        domain.GameWordle,
		Title:       "Word Master",
		Description: "Win a WordBuzz game in 4 tries or less",
		Target:      4,
		Reward:      50,
		Met: func(res domain.SessionResult, target int) bool {
			return res.Won && res.GuessesUsed > 0 && res.GuessesUsed <= target
		},
	},
	{
		Prefix:      "brain",
		Game:        domain.GameBrainChallenges,
		Title:       "Brain Boost",
		Description: "Answer 10 brain challenge questions correctly",
		Target:      10,
		Reward:      30,
		Met: func(res domain.SessionResult, target int) bool {
			return res.Stats.Correct >= target
		},
	},
	{
		Prefix:      "flag",
		Game:        domain.GameFlagGuesser,
		Title:       "Geography Guru",
		Description: "Score 500+ points in Flag Guesser",
		Target:      500,
		Reward:      40,
		Met: func(res domain.SessionResult, target int) bool {
			return res.Stats.Score >= target
		},
	},
}

// ChallengeDate formats t as the UTC calendar day challenges are keyed by.
func ChallengeDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// DailyChallenges returns the fresh, uncompleted challenges of date.
func DailyChallenges(date string) []domain.DailyChallenge {
	out := make([]domain.DailyChallenge, 0, len(challengeTemplates))
	for _, t := range challengeTemplates {
		out = append(out, domain.DailyChallenge{
			ID:          t.Prefix + "_" + date,
			Date:        date,
			Game:        t.Game,
			Title:       t.Title,
			Description: t.Description,
			Target:      t.Target,
			Reward:      t.Reward,
		})
	}
	return out
}

// ChallengeMet reports whether res completes c.
func ChallengeMet(c domain.DailyChallenge, res domain.SessionResult) bool {
	if c.Completed || c.Game != res.Game {
		return false
	}
	for _, t := range challengeTemplates {
		if t.Game == c.Game && c.ID == t.Prefix+"_"+c.Date {
			return t.Met(res, c.Target)
		}
	}
	return false
}
