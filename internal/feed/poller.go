package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is the gap between status refreshes while at least
// one image is still processing.
const DefaultPollInterval = 3 * time.Second

// Poller drives periodic refreshes while any tracked image is in a
// non-terminal processing state. It owns a single timer: ticks while a
// refresh is still in flight are skipped rather than stacked, and the timer
// is disarmed as soon as nothing is active.
type Poller struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	refresh  func(ctx context.Context) error
	active   func() bool
	timer    Timer
	inFlight bool
	closed   bool
}

// NewPoller creates a poller. refresh re-fetches the event/image lists;
// active reports whether anything still needs polling. A zero interval uses
// DefaultPollInterval.
func NewPoller(clock Clock, interval time.Duration, refresh func(ctx context.Context) error, active func() bool) *Poller {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		clock:    clock,
		interval: interval,
		refresh:  refresh,
		active:   active,
	}
}

// Kick arms the timer if something is active and it is not already armed.
// Call after every refresh or reprocess so polling starts and stops itself.
func (p *Poller) Kick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.armLocked()
}

// armLocked starts the timer when polling is needed. Caller holds p.mu.
func (p *Poller) armLocked() {
	if p.closed || p.timer != nil || p.inFlight {
		return
	}
	if !p.active() {
		return
	}
	p.timer = p.clock.AfterFunc(p.interval, p.tick)
}

// tick runs one poll cycle. At most one refresh is in flight at a time; the
// timer is only re-armed after the refresh finishes and only while
// something is still active.
func (p *Poller) tick() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	if p.inFlight {
		// A manual refresh is still running; let its completion re-arm us.
		p.mu.Unlock()
		return
	}
	if !p.active() {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	if err := p.refresh(context.Background()); err != nil {
		slog.Warn("Poll refresh failed", "error", err)
	}

	p.mu.Lock()
	p.inFlight = false
	p.armLocked()
	p.mu.Unlock()
}

// Close disarms the timer. No tick runs after Close returns; an in-flight
// refresh finishes but does not re-arm.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
