package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/game"
	"brainbuzz/internal/metrics"
	"brainbuzz/internal/wordle"
)

// GameService starts plays and tracks the ones in progress.
type GameService struct {
	catalog      *catalog.Catalog
	banks        BankRepository
	plays        PlayRegistry
	recorder     *Recorder
	metrics      *metrics.Manager
	log          zerolog.Logger
	advanceDelay time.Duration
	newTicker    func(time.Duration) game.Ticker
	newRand      func() *rand.Rand
	newID        func() string
	now          func() time.Time
}

// GameServiceOption customises a GameService.
type GameServiceOption func(*GameService)

func WithLogger(l zerolog.Logger) GameServiceOption {
	return func(s *GameService) { s.log = l }
}

func WithMetrics(m *metrics.Manager) GameServiceOption {
	return func(s *GameService) { s.metrics = m }
}

// WithAdvanceDelay sets the pause between an answer and the next round.
// Zero waits for the player to ask for the next round.
func WithAdvanceDelay(d time.Duration) GameServiceOption {
	return func(s *GameService) { s.advanceDelay = d }
}

// WithTickerFactory replaces the one-second ticker behind every countdown.
func WithTickerFactory(f func(time.Duration) game.Ticker) GameServiceOption {
	return func(s *GameService) { s.newTicker = f }
}

func WithRandSource(f func() *rand.Rand) GameServiceOption {
	return func(s *GameService) { s.newRand = f }
}

func WithClock(now func() time.Time) GameServiceOption {
	return func(s *GameService) { s.now = now }
}

func NewGameService(cat *catalog.Catalog, banks BankRepository, plays PlayRegistry, recorder *Recorder, opts ...GameServiceOption) *GameService {
	s := &GameService{
		catalog:      cat,
		banks:        banks,
		plays:        plays,
		recorder:     recorder,
		log:          zerolog.Nop(),
		advanceDelay: 2 * time.Second,
		newTicker:    game.NewRealTicker,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Games lists the catalog.
func (s *GameService) Games() []catalog.Game {
	return s.catalog.Games()
}

// Start creates a play of kind for player and registers it. The caller
// subscribes to it and then calls Begin.
func (s *GameService) Start(ctx context.Context, kind domain.GameKind, player Player) (Play, error) {
	g, err := s.catalog.Lookup(kind)
	if err != nil {
		return nil, err
	}
	bank, err := s.banks.GetBank(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", kind, err)
	}
	if len(bank.Items) == 0 {
		return nil, domain.ErrEmptyBank
	}

	id := s.newID()
	rnd := s.newRand()
	var play Play
	if g.Word {
		target := bank.Items[rnd.Intn(len(bank.Items))].Answer
		wg, err := wordle.New(target)
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", target, err)
		}
		b := newBase(id, g, player, s.now, s.recorder)
		b.onDone = s.release
		b.onActivity = func() { s.plays.Touch(id) }
		play = newWordPlay(b, wg)
	} else {
		ctrl, err := game.NewController(g.Rules, bank.Items, game.WithRand(rnd), game.WithClock(s.now))
		if err != nil {
			return nil, err
		}
		qp := newQuizPlay(quizPlayConfig{
			id:           id,
			game:         g,
			player:       player,
			ctrl:         ctrl,
			now:          s.now,
			recorder:     s.recorder,
			metrics:      s.metrics,
			newTicker:    s.newTicker,
			advanceDelay: s.advanceDelay,
		})
		qp.onDone = s.release
		qp.onActivity = func() { s.plays.Touch(id) }
		play = qp
	}

	s.plays.Put(ctx, play)
	s.metrics.PlayStarted()
	s.log.Debug().Str("play", id).Str("game", string(kind)).Str("uid", player.Identity.UID).Msg("play started")
	return play, nil
}

func (s *GameService) release(p Play) {
	s.plays.Delete(p.ID())
	s.metrics.PlayEnded()
	s.log.Debug().Str("play", p.ID()).Msg("play ended")
}

// Play returns a play in progress owned by player.
func (s *GameService) Play(id string, player Player) (Play, error) {
	p, ok := s.plays.Get(id)
	if !ok || !sameOwner(p.Player(), player) {
		return nil, domain.ErrPlayNotFound
	}
	return p, nil
}

func sameOwner(owner, caller Player) bool {
	if owner.SignedIn() {
		return owner.Identity.UID == caller.Identity.UID
	}
	return owner.Device != "" && owner.Device == caller.Device
}

// Shutdown abandons every play in progress and releases its timers.
func (s *GameService) Shutdown() {
	for _, p := range s.plays.All() {
		p.Abandon()
	}
}
