package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/scenecast/pkg/ports"
)

// Clock is a manual implementation of ports.Clock. Time only moves when
// the test calls Advance, so hold arithmetic can be asserted exactly.
type Clock struct {
	mu       sync.Mutex
	now      time.Time
	sleepers []*clockWaiter
	tickers  []*ClockTicker
}

type clockWaiter struct {
	at time.Time
	ch chan struct{}
}

// NewClock creates a manual clock starting at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (m *Clock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	m.mu.Lock()
	w := &clockWaiter{at: m.now.Add(d), ch: make(chan struct{})}
	m.sleepers = append(m.sleepers, w)
	m.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		m.drop(w)
		return ctx.Err()
	}
}

func (m *Clock) NewTicker(d time.Duration) ports.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ClockTicker{
		clk:      m,
		interval: d,
		next:     m.now.Add(d),
		c:        make(chan time.Time, 64),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward by d, waking sleepers and firing
// tickers in deadline order as the window passes over them.
func (m *Clock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := m.now.Add(d)
	for {
		at, ok := m.nextDeadline(target)
		if !ok {
			break
		}
		m.now = at
		m.fire()
	}
	m.now = target
}

// BlockUntil busy-waits until at least n goroutines are blocked in Sleep.
// Tests use it to sequence Advance calls against the code under test.
func (m *Clock) BlockUntil(n int) {
	for {
		m.mu.Lock()
		waiting := len(m.sleepers)
		m.mu.Unlock()
		if waiting >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// Sleepers returns how many goroutines are currently blocked in Sleep.
func (m *Clock) Sleepers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sleepers)
}

func (m *Clock) nextDeadline(limit time.Time) (time.Time, bool) {
	var at time.Time
	found := false
	for _, w := range m.sleepers {
		if !w.at.After(limit) && (!found || w.at.Before(at)) {
			at = w.at
			found = true
		}
	}
	for _, t := range m.tickers {
		if !t.stopped && !t.next.After(limit) && (!found || t.next.Before(at)) {
			at = t.next
			found = true
		}
	}
	return at, found
}

func (m *Clock) fire() {
	kept := m.sleepers[:0]
	for _, w := range m.sleepers {
		if w.at.After(m.now) {
			kept = append(kept, w)
			continue
		}
		close(w.ch)
	}
	m.sleepers = kept

	for _, t := range m.tickers {
		for !t.stopped && !t.next.After(m.now) {
			select {
			case t.c <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

func (m *Clock) drop(w *clockWaiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cand := range m.sleepers {
		if cand == w {
			m.sleepers = append(m.sleepers[:i], m.sleepers[i+1:]...)
			return
		}
	}
}

var _ ports.Clock = (*Clock)(nil)

// ClockTicker is the ticker handed out by the manual Clock.
type ClockTicker struct {
	clk      *Clock
	interval time.Duration
	next     time.Time
	c        chan time.Time
	stopped  bool
}

func (t *ClockTicker) C() <-chan time.Time {
	return t.c
}

func (t *ClockTicker) Stop() {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	t.stopped = true
}

var _ ports.Ticker = (*ClockTicker)(nil)
