package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/game"
	"brainbuzz/internal/metrics"
)

// quizPlay drives a game.Controller with its countdowns and the automatic
// advance to the next round.
type quizPlay struct {
	*base
	ctrl         *game.Controller
	metrics      *metrics.Manager
	newTicker    func(time.Duration) game.Ticker
	advanceDelay time.Duration

	mu        sync.Mutex
	begun     bool
	finished  bool
	sessionCD *game.Countdown
	roundCD   *game.Countdown
	advance   *time.Timer
}

type quizPlayConfig struct {
	id           string
	game         catalog.Game
	player       Player
	ctrl         *game.Controller
	now          func() time.Time
	recorder     *Recorder
	metrics      *metrics.Manager
	newTicker    func(time.Duration) game.Ticker
	advanceDelay time.Duration
}

func newQuizPlay(cfg quizPlayConfig) *quizPlay {
	return &quizPlay{
		base:         newBase(cfg.id, cfg.game, cfg.player, cfg.now, cfg.recorder),
		ctrl:         cfg.ctrl,
		metrics:      cfg.metrics,
		newTicker:    cfg.newTicker,
		advanceDelay: cfg.advanceDelay,
	}
}

func (p *quizPlay) Begin() {
	p.mu.Lock()
	if p.begun || p.finished {
		p.mu.Unlock()
		return
	}
	p.begun = true
	p.broadcast(EventStarted, StartedPayload{PlayID: p.id, Game: p.game})

	if secs := p.game.Rules.SessionSeconds; secs > 0 {
		p.sessionCD = game.NewCountdown(secs, game.WithTicker(p.newTicker))
		p.sessionCD.Start(func(left int) {
			p.broadcast(EventTick, TickPayload{Scope: ScopeSession, Remaining: left})
		}, func() {
			_, _ = p.Finish(context.Background())
		})
	}
	ended := p.startRoundLocked()
	p.mu.Unlock()

	if ended {
		_, _ = p.Finish(context.Background())
	}
}

// startRoundLocked opens the next round. It reports true when the pool or the
// session clock is exhausted and the play must finish.
func (p *quizPlay) startRoundLocked() bool {
	round, err := p.ctrl.StartRound()
	if err != nil {
		return errors.Is(err, domain.ErrSessionEnded)
	}
	p.broadcast(EventRound, newRoundPayload(round, p.ctrl.Remaining()))

	if secs := p.game.Rules.RoundSeconds; secs > 0 {
		seq := round.Seq
		cd := game.NewCountdown(secs, game.WithTicker(p.newTicker))
		p.roundCD = cd
		cd.Start(func(left int) {
			p.broadcast(EventTick, TickPayload{Scope: ScopeRound, Seq: seq, Remaining: left})
		}, func() {
			p.timeout(seq)
		})
	}
	return false
}

// Answer submits choice for the active round.
func (p *quizPlay) Answer(_ context.Context, choice int) (game.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return game.Outcome{}, domain.ErrSessionEnded
	}
	out, err := p.ctrl.SubmitAnswer(choice)
	if err != nil {
		return game.Outcome{}, err
	}
	p.resolvedLocked(out)
	return out, nil
}

func (p *quizPlay) timeout(seq int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	out, err := p.ctrl.Timeout(seq)
	if err != nil {
		return
	}
	p.resolvedLocked(out)
}

func (p *quizPlay) resolvedLocked(out game.Outcome) {
	if p.roundCD != nil {
		p.roundCD.Stop()
		p.roundCD = nil
	}
	outcome := "wrong"
	switch {
	case out.Correct:
		outcome = "correct"
	case out.TimedOut:
		outcome = "timeout"
	}
	p.metrics.RoundResolved(string(p.game.Kind), outcome)
	p.broadcast(EventResult, out)

	if p.advanceDelay > 0 {
		seq := out.Seq
		p.advance = time.AfterFunc(p.advanceDelay, func() { p.advanceFrom(seq) })
	}
}

// advanceFrom starts the round after seq unless the player already moved on.
func (p *quizPlay) advanceFrom(seq int) {
	p.mu.Lock()
	round, ok := p.ctrl.Round()
	if p.finished || !ok || round.Seq != seq || !round.Answered {
		p.mu.Unlock()
		return
	}
	p.advance = nil
	ended := p.startRoundLocked()
	p.mu.Unlock()
	if ended {
		_, _ = p.Finish(context.Background())
	}
}

// Next skips the advance delay after an answered round.
func (p *quizPlay) Next(ctx context.Context) error {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return domain.ErrSessionEnded
	}
	if round, ok := p.ctrl.Round(); ok && !round.Answered {
		p.mu.Unlock()
		return domain.ErrRoundActive
	}
	if p.advance != nil {
		p.advance.Stop()
		p.advance = nil
	}
	ended := p.startRoundLocked()
	p.mu.Unlock()
	if ended {
		_, err := p.Finish(ctx)
		return err
	}
	return nil
}

func (p *quizPlay) stopClocks() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	if p.sessionCD != nil {
		p.sessionCD.Stop()
	}
	if p.roundCD != nil {
		p.roundCD.Stop()
	}
	if p.advance != nil {
		p.advance.Stop()
	}
}

func (p *quizPlay) Finish(ctx context.Context) (domain.SessionResult, error) {
	res := p.end(ctx, p, p.stopClocks, func() (domain.SessionResult, string, bool) {
		stats := p.ctrl.End()
		return p.sessionResult(stats, p.game.Rules.Won(stats), 0), "", true
	})
	return res, nil
}

func (p *quizPlay) Abandon() {
	p.end(context.Background(), p, p.stopClocks, func() (domain.SessionResult, string, bool) {
		stats := p.ctrl.End()
		return p.sessionResult(stats, false, 0), "", false
	})
}

func (p *quizPlay) Snapshot() Snapshot {
	p.mu.Lock()
	finished := p.finished
	p.mu.Unlock()

	snap := Snapshot{
		ID:               p.id,
		Game:             p.game.Kind,
		Finished:         finished,
		Stats:            p.ctrl.Stats(),
		SessionRemaining: p.ctrl.SessionRemaining(),
	}
	if round, ok := p.ctrl.Round(); ok && !finished {
		rp := newRoundPayload(round, p.ctrl.Remaining())
		snap.Round = &rp
	}
	return snap
}
