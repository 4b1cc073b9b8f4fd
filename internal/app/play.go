package app

import (
	"context"
	"sync"
	"time"

	"brainbuzz/internal/catalog"
	"brainbuzz/internal/domain"
	"brainbuzz/internal/game"
	"brainbuzz/internal/wordle"
)

// Event types pushed to play subscribers.
const (
	EventStarted      = "started"
	EventRound        = "round"
	EventTick         = "tick"
	EventResult       = "result"
	EventGuess        = "guess"
	EventGameOver     = "gameOver"
	EventNotification = "notification"
)

// Event is one outbound message of a play.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type StartedPayload struct {
	PlayID string       `json:"playId"`
	Game   catalog.Game `json:"game"`
}

// RoundPayload is a round as shown to the player, without the correct answer.
type RoundPayload struct {
	Seq        int               `json:"seq"`
	Prompt     string            `json:"prompt"`
	PromptKind domain.PromptKind `json:"promptKind"`
	Options    []string          `json:"options"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Points     int               `json:"points"`
	Category   string            `json:"category,omitempty"`
	Remaining  int               `json:"remaining"`
	Deadline   time.Time         `json:"deadline,omitempty"`
	Answered   bool              `json:"answered"`
}

func newRoundPayload(r domain.RoundState, remaining int) RoundPayload {
	return RoundPayload{
		Seq:        r.Seq,
		Prompt:     r.Item.Prompt,
		PromptKind: r.Item.PromptKind,
		Options:    r.Item.Options,
		Difficulty: r.Item.Difficulty,
		Points:     r.Item.Points,
		Category:   r.Item.Category,
		Remaining:  remaining,
		Deadline:   r.Deadline,
		Answered:   r.Answered,
	}
}

// Tick scopes.
const (
	ScopeRound   = "round"
	ScopeSession = "session"
)

type TickPayload struct {
	Scope     string `json:"scope"`
	Seq       int    `json:"seq,omitempty"`
	Remaining int    `json:"remaining"`
}

type GameOverPayload struct {
	Result domain.SessionResult `json:"result"`
	Target string               `json:"target,omitempty"`
}

// Snapshot is the current state of a play for polling clients.
type Snapshot struct {
	ID               string                   `json:"id"`
	Game             domain.GameKind          `json:"game"`
	Finished         bool                     `json:"finished"`
	Stats            domain.SessionStats      `json:"stats"`
	Round            *RoundPayload            `json:"round,omitempty"`
	SessionRemaining int                      `json:"sessionRemaining,omitempty"`
	Rows             [][]wordle.Cell          `json:"rows,omitempty"`
	Keyboard         map[string]wordle.Status `json:"keyboard,omitempty"`
}

// Play is one game session in progress.
type Play interface {
	ID() string
	Game() domain.GameKind
	Player() Player
	// Begin emits the opening events and starts the clocks. Subscribe first
	// to receive them. Later calls are no-ops.
	Begin()
	Subscribe() (<-chan Event, func())
	Snapshot() Snapshot
	// Finish ends the play and records its result once.
	Finish(ctx context.Context) (domain.SessionResult, error)
	// Abandon ends the play without recording anything.
	Abandon()
	Done() <-chan struct{}
}

// QuizPlayer is implemented by option-based games.
type QuizPlayer interface {
	Play
	Answer(ctx context.Context, choice int) (game.Outcome, error)
	Next(ctx context.Context) error
}

// WordPlayer is implemented by the word game.
type WordPlayer interface {
	Play
	Guess(ctx context.Context, word string) (wordle.GuessResult, error)
}

// base carries what every play shares: identity, fan-out of events to
// subscribers and the once-only end of the play.
type base struct {
	id        string
	game      catalog.Game
	player    Player
	startedAt time.Time
	now       func() time.Time
	recorder  *Recorder
	onDone    func(Play)
	// onActivity runs after every broadcast, outside the subscriber lock.
	onActivity func()

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
	closed      bool

	endOnce sync.Once
	result  domain.SessionResult
	done    chan struct{}
}

func newBase(id string, g catalog.Game, player Player, now func() time.Time, recorder *Recorder) *base {
	return &base{
		id:          id,
		game:        g,
		player:      player,
		startedAt:   now(),
		now:         now,
		recorder:    recorder,
		subscribers: make(map[chan Event]struct{}),
		done:        make(chan struct{}),
	}
}

func (b *base) ID() string            { return b.id }
func (b *base) Game() domain.GameKind { return b.game.Kind }
func (b *base) Player() Player        { return b.player }
func (b *base) Done() <-chan struct{} { return b.done }

func (b *base) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	b.subMu.Lock()
	if b.closed {
		b.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subscribers[ch] = struct{}{}
	b.subMu.Unlock()

	cancel := func() {
		b.subMu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.subMu.Unlock()
	}
	return ch, cancel
}

// broadcast never blocks: a full subscriber loses its oldest pending event.
func (b *base) broadcast(typ string, payload any) {
	ev := Event{Type: typ, Payload: payload}
	b.subMu.Lock()
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	b.subMu.Unlock()
	if b.onActivity != nil {
		b.onActivity()
	}
}

func (b *base) closeSubscribers() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.closed = true
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// end runs the shared tail of Finish and Abandon exactly once. stop halts the
// game's clocks; collect returns the result to record, or ok=false to skip recording.
func (b *base) end(ctx context.Context, self Play, stop func(), collect func() (domain.SessionResult, string, bool)) domain.SessionResult {
	b.endOnce.Do(func() {
		stop()
		res, target, record := collect()
		b.result = res
		if record {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
			notes := b.recorder.Record(ctx, b.player, res)
			cancel()
			b.broadcast(EventGameOver, GameOverPayload{Result: res, Target: target})
			for _, n := range notes {
				b.broadcast(EventNotification, n)
			}
		}
		b.closeSubscribers()
		if b.onDone != nil {
			b.onDone(self)
		}
		close(b.done)
	})
	return b.result
}

func (b *base) sessionResult(stats domain.SessionStats, won bool, guesses int) domain.SessionResult {
	return domain.SessionResult{
		PlayID:      b.id,
		Game:        b.game.Kind,
		Stats:       stats,
		Won:         won,
		GuessesUsed: guesses,
		StartedAt:   b.startedAt,
		EndedAt:     b.now(),
	}
}

const recordTimeout = 10 * time.Second
