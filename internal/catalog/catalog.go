// Package catalog describes the built-in games: their timing and scoring
// rules, the stock question banks, leaderboards and daily challenges.
package catalog

import (
	"fmt"

	"brainbuzz/internal/domain"
	"brainbuzz/internal/game"
)

// Game is one entry of the game catalog.
type Game struct {
	Kind           domain.GameKind `json:"kind"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Icon           string          `json:"icon"`
	Route          string          `json:"route"`
	Word           bool            `json:"word"` // played on the guess grid rather than with answer options
	RoundSeconds   int             `json:"roundSeconds,omitempty"`
	SessionSeconds int             `json:"sessionSeconds,omitempty"`
	Rules          game.Rules      `json:"-"`
}

func newGame(kind domain.GameKind, title, desc, icon string, word bool, rules game.Rules) Game {
	return Game{
		Kind:           kind,
		Title:          title,
		Description:    desc,
		Icon:           icon,
		Route:          "/games/" + string(kind),
		Word:           word,
		RoundSeconds:   rules.RoundSeconds,
		SessionSeconds: rules.SessionSeconds,
		Rules:          rules,
	}
}

// Catalog is the ordered set of playable games.
type Catalog struct {
	order []domain.GameKind
	games map[domain.GameKind]Game
	banks map[domain.GameKind]domain.Bank
}

// Default returns the stock catalog with its built-in banks.
func Default() *Catalog {
	games := []Game{
		newGame(domain.GameWordle, "WordBuzz", "Guess the five-letter word in six tries", "🔤", true,
			game.Rules{Selection: game.SelectRandom, Exhaustion: game.Resample, WinAccuracy: 100}),
		newGame(domain.GameFlagGuesser, "Flag Guesser", "Name the country behind the flag before time runs out", "🏁", false,
			game.Rules{
				Selection:      game.SelectRandom,
				Exhaustion:     game.Resample,
				SessionSeconds: 120,
				Score:          game.StreakBonus(5, 5),
				Options:        4,
				WinAccuracy:    70,
			}),
		newGame(domain.GameBrainChallenges, "Brain Challenges", "Math, logic, pattern and riddle questions against the clock", "🧠", false,
			game.Rules{
				Selection:      game.SelectRandom,
				Exhaustion:     game.Resample,
				SessionSeconds: 60,
				Score:          game.ItemPoints(),
				WinAccuracy:    60,
			}),
		newGame(domain.GameFoodQuiz, "Food Quiz", "Identify the dish from its emoji", "🍕", false,
			game.Rules{
				Selection:    game.SelectSequential,
				Exhaustion:   game.EndSession,
				RoundSeconds: 15,
				Score:        game.TimeBonus(3),
				WinAccuracy:  60,
			}),
		newGame(domain.GameLogoGuesser, "Logo Guesser", "Match the symbol to the brand", "🛍️", false,
			game.Rules{
				Selection:    game.SelectSequential,
				Exhaustion:   game.EndSession,
				RoundSeconds: 12,
				Score:        game.TimeBonus(4),
				WinAccuracy:  60,
			}),
	}
	return New(games, BuiltinBanks())
}

// New builds a catalog from games and their banks.
func New(games []Game, banks []domain.Bank) *Catalog {
	c := &Catalog{
		games: make(map[domain.GameKind]Game, len(games)),
		banks: make(map[domain.GameKind]domain.Bank, len(banks)),
	}
	for _, g := range games {
		c.order = append(c.order, g.Kind)
		c.games[g.Kind] = g
	}
	for _, b := range banks {
		c.banks[b.Game] = b
	}
	return c
}

// Games lists the catalog in display order.
func (c *Catalog) Games() []Game {
	out := make([]Game, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.games[k])
	}
	return out
}

func (c *Catalog) Lookup(kind domain.GameKind) (Game, error) {
	g, ok := c.games[kind]
	if !ok {
		return Game{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, kind)
	}
	return g, nil
}

// Bank returns the built-in bank of kind.
func (c *Catalog) Bank(kind domain.GameKind) (domain.Bank, error) {
	b, ok := c.banks[kind]
	if !ok {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, kind)
	}
	return b, nil
}

// Banks returns every built-in bank in catalog order.
func (c *Catalog) Banks() []domain.Bank {
	out := make([]domain.Bank, 0, len(c.banks))
	for _, k := range c.order {
		if b, ok := c.banks[k]; ok {
			out = append(out, b)
		}
	}
	return out
}
