package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is the one-second cadence driving a Countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.NewTicker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Countdown ticks once per second from a start value down to zero. Expiry
// fires exactly once; afterwards, and after Stop, no callback starts.
type Countdown struct {
	seconds   int
	newTicker func(time.Duration) Ticker

	remaining atomic.Int64
	stopped   atomic.Bool

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// CountdownOption customises a Countdown.
type CountdownOption func(*Countdown)

// WithTicker injects the ticker factory, letting tests drive ticks by hand.
func WithTicker(newTicker func(time.Duration) Ticker) CountdownOption {
	return func(c *Countdown) { c.newTicker = newTicker }
}

func NewCountdown(seconds int, opts ...CountdownOption) *Countdown {
	c := &Countdown{
		seconds:   seconds,
		newTicker: NewRealTicker,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.remaining.Store(int64(seconds))
	return c
}

// Start launches the countdown goroutine. onTick receives the seconds left
// after each tick; onExpire runs once when the count reaches zero. Either may be nil.
func (c *Countdown) Start(onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped.Load() {
		return
	}
	c.started = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, c.newTicker(time.Second), onTick, onExpire)
}

func (c *Countdown) run(ctx context.Context, ticker Ticker, onTick func(int), onExpire func()) {
	defer close(c.done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			left := c.remaining.Add(-1)
			if c.stopped.Load() {
				return
			}
			if onTick != nil {
				onTick(int(left))
			}
			if left <= 0 {
				c.stopped.Store(true)
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// Stop cancels the countdown. It never blocks, so it is safe to call from
// inside the countdown's own callbacks.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wasStopped := c.stopped.Swap(true)
	if c.started {
		c.cancel()
		return
	}
	if !wasStopped {
		c.started = true
		close(c.done)
	}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return int(c.remaining.Load())
}

// Expired reports whether the countdown reached zero or was stopped.
func (c *Countdown) Expired() bool {
	return c.stopped.Load()
}

// Done is closed once the countdown goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
