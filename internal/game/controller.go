package game

import (
	"math/rand"
	"sync"
	"time"

	"brainbuzz/internal/domain"
)

// Outcome describes how a round was resolved.
type Outcome struct {
	Seq          int                 `json:"seq"`
	Choice       int                 `json:"choice"`
	Correct      bool                `json:"correct"`
	CorrectIndex int                 `json:"correctIndex"`
	Answer       string              `json:"answer"`
	Awarded      int                 `json:"awarded"`
	TimedOut     bool                `json:"timedOut"`
	Explanation  string              `json:"explanation,omitempty"`
	Stats        domain.SessionStats `json:"stats"`
}

// Controller is the round state machine of one quiz session. It is safe for
// use by the socket reader and the countdown goroutines at the same time.
type Controller struct {
	mu     sync.Mutex
	rules  Rules
	pool   []domain.QuizItem
	picker *Picker
	rnd    *rand.Rand
	now    func() time.Time

	round     *domain.RoundState
	seq       int
	stats     domain.SessionStats
	startedAt time.Time
	deadline  time.Time
	ended     bool
}

// Option customises a controller.
type Option func(*Controller)

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRand replaces the random source used for selection and option shuffling.
func WithRand(rnd *rand.Rand) Option {
	return func(c *Controller) { c.rnd = rnd }
}

// NewController starts a session over pool. The session clock, if any, starts now.
func NewController(rules Rules, pool []domain.QuizItem, opts ...Option) (*Controller, error) {
	if len(pool) == 0 {
		return nil, domain.ErrEmptyBank
	}
	c := &Controller{
		rules: rules,
		pool:  pool,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.rules.Score == nil {
		c.rules.Score = ItemPoints()
	}
	c.picker = NewPicker(rules.Selection, rules.Exhaustion, c.rnd)
	c.startedAt = c.now()
	if rules.SessionSeconds > 0 {
		c.deadline = c.startedAt.Add(time.Duration(rules.SessionSeconds) * time.Second)
	}
	return c, nil
}

// StartRound draws the next item and resets the per-round state.
func (c *Controller) StartRound() (domain.RoundState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkEndedLocked() {
		return domain.RoundState{}, domain.ErrSessionEnded
	}
	if c.round != nil && !c.round.Answered {
		return domain.RoundState{}, domain.ErrRoundActive
	}
	item, ok := c.picker.Next(c.pool)
	if !ok {
		c.ended = true
		c.round = nil
		return domain.RoundState{}, domain.ErrSessionEnded
	}
	if c.rules.Options > 0 && len(item.Options) == 0 {
		item = c.withGeneratedOptions(item)
	}

	c.seq++
	now := c.now()
	round := &domain.RoundState{
		Seq:       c.seq,
		Item:      item,
		Selected:  domain.NoChoice,
		StartedAt: now,
	}
	if c.rules.RoundSeconds > 0 {
		round.Deadline = now.Add(time.Duration(c.rules.RoundSeconds) * time.Second)
	}
	c.round = round
	return *round, nil
}

// SubmitAnswer resolves the active round with the option at index choice.
// A rejected submission leaves the session untouched.
func (c *Controller) SubmitAnswer(choice int) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkEndedLocked() {
		return Outcome{}, domain.ErrSessionEnded
	}
	if c.round == nil {
		return Outcome{}, domain.ErrRoundNotActive
	}
	if c.round.Answered {
		return Outcome{}, domain.ErrRoundAnswered
	}
	if choice < 0 || choice >= len(c.round.Item.Options) {
		return Outcome{}, domain.ErrInvalidChoice
	}
	return c.resolveLocked(choice, false), nil
}

// Timeout resolves round seq as an incorrect answer without a choice. Calls
// for any other round are rejected, so a late timer cannot touch a newer round.
func (c *Controller) Timeout(seq int) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return Outcome{}, domain.ErrSessionEnded
	}
	if c.round == nil || c.round.Seq != seq {
		return Outcome{}, domain.ErrRoundNotActive
	}
	if c.round.Answered {
		return Outcome{}, domain.ErrRoundAnswered
	}
	return c.resolveLocked(domain.NoChoice, true), nil
}

func (c *Controller) resolveLocked(choice int, timedOut bool) Outcome {
	now := c.now()
	round := c.round
	item := round.Item
	correct := !timedOut && choice == item.Correct

	awarded := 0
	c.stats.Attempted++
	c.stats.AnswerMillis += now.Sub(round.StartedAt).Milliseconds()
	if correct {
		awarded = c.rules.Score(item, c.remainingLocked(now), c.stats.Streak)
		c.stats.Score += awarded
		c.stats.Correct++
		c.stats.Streak++
		c.stats.BestStreak = max(c.stats.BestStreak, c.stats.Streak)
	} else {
		c.stats.Streak = 0
	}

	round.Answered = true
	round.Selected = choice
	round.TimedOut = timedOut

	answer := item.Answer
	if item.Correct >= 0 && item.Correct < len(item.Options) {
		answer = item.Options[item.Correct]
	}
	return Outcome{
		Seq:          round.Seq,
		Choice:       choice,
		Correct:      correct,
		CorrectIndex: item.Correct,
		Answer:       answer,
		Awarded:      awarded,
		TimedOut:     timedOut,
		Explanation:  item.Explanation,
		Stats:        c.stats,
	}
}

// End marks the session finished and returns the final stats. It is idempotent.
func (c *Controller) End() domain.SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ended = true
	return c.stats
}

// Stats returns a snapshot of the session totals.
func (c *Controller) Stats() domain.SessionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Round returns the current round, if one was started.
func (c *Controller) Round() (domain.RoundState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.round == nil {
		return domain.RoundState{}, false
	}
	return *c.round, true
}

// Ended reports whether the session is over.
func (c *Controller) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkEndedLocked()
}

// Remaining returns whole seconds left on the round clock, or on the session
// clock for games timed per session.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked(c.now())
}

// SessionRemaining returns whole seconds left on the session clock, 0 when untimed.
func (c *Controller) SessionRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadline.IsZero() {
		return 0
	}
	return secondsLeft(c.rules.SessionSeconds, c.now().Sub(c.startedAt))
}

// StartedAt returns when the session began.
func (c *Controller) StartedAt() time.Time {
	return c.startedAt
}

// Rules returns the rules the controller was built with.
func (c *Controller) Rules() Rules {
	return c.rules
}

func (c *Controller) remainingLocked(now time.Time) int {
	if c.round != nil && c.rules.RoundSeconds > 0 {
		return secondsLeft(c.rules.RoundSeconds, now.Sub(c.round.StartedAt))
	}
	if !c.deadline.IsZero() {
		return secondsLeft(c.rules.SessionSeconds, now.Sub(c.startedAt))
	}
	return 0
}

func (c *Controller) checkEndedLocked() bool {
	if !c.ended && !c.deadline.IsZero() && !c.now().Before(c.deadline) {
		c.ended = true
	}
	return c.ended
}

// withGeneratedOptions builds a shuffled option list of the item's answer and
// distinct answers of other items.
func (c *Controller) withGeneratedOptions(item domain.QuizItem) domain.QuizItem {
	distractors := make([]string, 0, len(c.pool))
	for _, other := range c.pool {
		if other.Answer != "" && other.Answer != item.Answer {
			distractors = append(distractors, other.Answer)
		}
	}
	c.rnd.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	n := min(c.rules.Options-1, len(distractors))
	options := append([]string{item.Answer}, distractors[:n]...)
	c.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	for i, opt := range options {
		if opt == item.Answer {
			item.Correct = i
			break
		}
	}
	item.Options = options
	return item
}

// secondsLeft mirrors a one-second countdown: the display only drops after a full second.
func secondsLeft(limit int, elapsed time.Duration) int {
	left := limit - int(elapsed/time.Second)
	if left < 0 {
		return 0
	}
	return left
}
