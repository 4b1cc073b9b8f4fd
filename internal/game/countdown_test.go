package game

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

func (m *manualTicker) tick() { m.ch <- time.Now() }

func waitDone(c *Countdown) bool {
	select {
	case <-c.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestCountdown(t *testing.T) {
	Convey("Given a three second countdown on a manual ticker", t, func() {
		ticker := newManualTicker()
		cd := NewCountdown(3, WithTicker(func(time.Duration) Ticker { return ticker }))

		var mu sync.Mutex
		var ticks []int
		expired := 0
		cd.Start(func(left int) {
			mu.Lock()
			ticks = append(ticks, left)
			mu.Unlock()
		}, func() {
			mu.Lock()
			expired++
			mu.Unlock()
		})

		Convey("When it ticks down to zero", func() {
			ticker.tick()
			ticker.tick()
			ticker.tick()

			So(waitDone(cd), ShouldBeTrue)

			Convey("Then every tick is reported and expiry fires once", func() {
				mu.Lock()
				defer mu.Unlock()
				So(ticks, ShouldResemble, []int{2, 1, 0})
				So(expired, ShouldEqual, 1)
				So(cd.Remaining(), ShouldEqual, 0)
				So(cd.Expired(), ShouldBeTrue)
				So(ticker.isStopped(), ShouldBeTrue)
			})

			Convey("Then a later Stop is harmless", func() {
				cd.Stop()
				mu.Lock()
				defer mu.Unlock()
				So(expired, ShouldEqual, 1)
			})
		})

		Convey("When it is stopped mid-way", func() {
			ticker.tick()
			cd.Stop()

			Convey("Then the goroutine exits without expiring", func() {
				So(waitDone(cd), ShouldBeTrue)
				mu.Lock()
				defer mu.Unlock()
				So(expired, ShouldEqual, 0)
				So(len(ticks), ShouldBeLessThanOrEqualTo, 1)
				So(cd.Remaining(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a countdown that was never started", t, func() {
		cd := NewCountdown(5)

		Convey("When it is stopped", func() {
			cd.Stop()

			Convey("Then Done is closed and Start becomes a no-op", func() {
				So(waitDone(cd), ShouldBeTrue)
				cd.Start(nil, func() { panic("must not expire") })
				So(cd.Expired(), ShouldBeTrue)
			})
		})
	})
}

func TestPicker(t *testing.T) {
	Convey("Given a sequential picker that resamples", t, func() {
		pool := samplePool()
		p := NewPicker(SelectSequential, Resample, nil)

		Convey("Then it walks the pool in order and wraps around", func() {
			var ids []string
			for i := 0; i < len(pool)+1; i++ {
				item, ok := p.Next(pool)
				So(ok, ShouldBeTrue)
				ids = append(ids, item.ID)
			}
			So(ids, ShouldResemble, []string{"q1", "q2", "q3", "q1"})
		})
	})

	Convey("Given a random picker that ends the session", t, func() {
		pool := samplePool()
		p := NewPicker(SelectRandom, EndSession, newTestRand())

		Convey("Then it yields every item once and then stops", func() {
			seen := map[string]bool{}
			for range pool {
				item, ok := p.Next(pool)
				So(ok, ShouldBeTrue)
				So(seen[item.ID], ShouldBeFalse)
				seen[item.ID] = true
			}
			So(p.Used(), ShouldEqual, len(pool))
			_, ok := p.Next(pool)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty pool", t, func() {
		p := NewPicker(SelectRandom, Resample, newTestRand())
		_, ok := p.Next(nil)
		So(ok, ShouldBeFalse)
	})
}
