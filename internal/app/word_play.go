package app

import (
	"context"
	"sync"

	"brainbuzz/internal/domain"
	"brainbuzz/internal/wordle"
)

// wordPlay is one WordBuzz game. It has no clock; it ends on a win, after
// the sixth row or when the player gives up.
type wordPlay struct {
	*base
	mu       sync.Mutex
	g        *wordle.Game
	begun    bool
	finished bool
}

func newWordPlay(b *base, g *wordle.Game) *wordPlay {
	return &wordPlay{base: b, g: g}
}

func (p *wordPlay) Begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.begun || p.finished {
		return
	}
	p.begun = true
	p.broadcast(EventStarted, StartedPayload{PlayID: p.id, Game: p.game})
}

// Guess evaluates word against the hidden target. Invalid words are rejected
// without using a row.
func (p *wordPlay) Guess(ctx context.Context, word string) (wordle.GuessResult, error) {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return wordle.GuessResult{}, domain.ErrSessionEnded
	}
	res, err := p.g.Guess(word)
	if err != nil {
		p.mu.Unlock()
		return wordle.GuessResult{}, err
	}
	p.broadcast(EventGuess, res)
	over := res.State != wordle.Playing
	p.mu.Unlock()

	if over {
		_, err = p.Finish(ctx)
	}
	return res, err
}

func (p *wordPlay) markFinished() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

// Finish records the game. A game still in progress counts as lost.
func (p *wordPlay) Finish(ctx context.Context) (domain.SessionResult, error) {
	res := p.end(ctx, p, p.markFinished, func() (domain.SessionResult, string, bool) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.g.Resign()
		won := p.g.State() == wordle.Won
		return p.sessionResult(p.g.Stats(), won, p.g.GuessesUsed()), p.g.Target(), true
	})
	return res, nil
}

func (p *wordPlay) Abandon() {
	p.end(context.Background(), p, p.markFinished, func() (domain.SessionResult, string, bool) {
		return domain.SessionResult{}, "", false
	})
}

func (p *wordPlay) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		ID:       p.id,
		Game:     p.game.Kind,
		Finished: p.finished,
		Stats:    p.g.Stats(),
		Rows:     p.g.Rows(),
		Keyboard: p.g.Keyboard(),
	}
}
