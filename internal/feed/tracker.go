package feed

import (
	"sync"
	"time"

	"github.com/tbraack/garagelog/internal/vehicle"
)

// DefaultPulseTTL is how long an image stays in the just-completed set,
// driving the one-time completion pulse in the UI.
const DefaultPulseTTL = 2 * time.Second

// Change describes one image's processing-status transition.
type Change struct {
	ImageID string
	From    vehicle.ProcessingStatus
	To      vehicle.ProcessingStatus
}

// Tracker follows per-image processing statuses across refreshes. It owns
// the just-completed pulse set and the status-change subscriptions; the feed
// controller is its only writer.
type Tracker struct {
	mu            sync.Mutex
	clock         Clock
	pulseTTL      time.Duration
	statuses      map[string]vehicle.ProcessingStatus
	justCompleted map[string]bool
	pulseTimers   map[string]Timer
	subs          map[string]map[int]func(Change)
	nextSubID     int
	closed        bool
}

// NewTracker creates a tracker. A zero pulseTTL uses DefaultPulseTTL.
func NewTracker(clock Clock, pulseTTL time.Duration) *Tracker {
	if clock == nil {
		clock = RealClock()
	}
	if pulseTTL <= 0 {
		pulseTTL = DefaultPulseTTL
	}
	return &Tracker{
		clock:         clock,
		pulseTTL:      pulseTTL,
		statuses:      make(map[string]vehicle.ProcessingStatus),
		justCompleted: make(map[string]bool),
		pulseTimers:   make(map[string]Timer),
		subs:          make(map[string]map[int]func(Change)),
	}
}

// Apply replaces the tracked set with the freshly fetched image list,
// firing subscriptions for every status transition. Images absent from the
// list stop being tracked.
func (t *Tracker) Apply(images []vehicle.LinkedImage) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	next := make(map[string]vehicle.ProcessingStatus, len(images))
	var changes []Change
	for _, image := range images {
		next[image.ID] = image.ProcessingStatus
		prev, known := t.statuses[image.ID]
		if known && prev == image.ProcessingStatus {
			continue
		}
		changes = append(changes, Change{ImageID: image.ID, From: prev, To: image.ProcessingStatus})
		// Pulse only on an observed transition, not on first sight, so a
		// fresh page load does not flash every historical image.
		if known && image.ProcessingStatus == vehicle.StatusCompleted {
			t.startPulseLocked(image.ID)
		}
	}
	t.statuses = next

	notify := t.collectSubscribersLocked(changes)
	t.mu.Unlock()

	for _, fire := range notify {
		fire()
	}
}

// MarkReprocessing resets one image to pending after the user requested a
// reprocess, so polling resumes before the next server refresh confirms it.
func (t *Tracker) MarkReprocessing(imageID string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	prev := t.statuses[imageID]
	t.statuses[imageID] = vehicle.StatusPending
	delete(t.justCompleted, imageID)
	if timer, ok := t.pulseTimers[imageID]; ok {
		timer.Stop()
		delete(t.pulseTimers, imageID)
	}
	change := Change{ImageID: imageID, From: prev, To: vehicle.StatusPending}
	notify := t.collectSubscribersLocked([]Change{change})
	t.mu.Unlock()

	for _, fire := range notify {
		fire()
	}
}

// Status returns the tracked status for an image.
func (t *Tracker) Status(imageID string) (vehicle.ProcessingStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status, ok := t.statuses[imageID]
	return status, ok
}

// AnyActive reports whether any tracked image is in a non-terminal state.
func (t *Tracker) AnyActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, status := range t.statuses {
		if !status.Terminal() {
			return true
		}
	}
	return false
}

// JustCompleted reports whether an image is inside its completion pulse
// window.
func (t *Tracker) JustCompleted(imageID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.justCompleted[imageID]
}

// Subscribe registers a callback for one image's status changes and returns
// the matching unsubscribe function.
func (t *Tracker) Subscribe(imageID string, fn func(Change)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.subs[imageID] == nil {
		t.subs[imageID] = make(map[int]func(Change))
	}
	id := t.nextSubID
	t.nextSubID++
	t.subs[imageID][id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if subs, ok := t.subs[imageID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(t.subs, imageID)
			}
		}
	}
}

// Close cancels every pulse timer. The tracker ignores all updates after
// this; no callback fires once Close returns.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, timer := range t.pulseTimers {
		timer.Stop()
		delete(t.pulseTimers, id)
	}
	t.justCompleted = make(map[string]bool)
	t.subs = make(map[string]map[int]func(Change))
}

// startPulseLocked adds an image to the just-completed set and arms its
// expiry. Caller holds t.mu.
func (t *Tracker) startPulseLocked(imageID string) {
	t.justCompleted[imageID] = true
	if timer, ok := t.pulseTimers[imageID]; ok {
		timer.Stop()
	}
	t.pulseTimers[imageID] = t.clock.AfterFunc(t.pulseTTL, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.justCompleted, imageID)
		delete(t.pulseTimers, imageID)
	})
}

// collectSubscribersLocked snapshots the callbacks to fire for a set of
// changes so they can run outside the lock. Caller holds t.mu.
func (t *Tracker) collectSubscribersLocked(changes []Change) []func() {
	var notify []func()
	for _, change := range changes {
		for _, fn := range t.subs[change.ImageID] {
			fn := fn
			change := change
			notify = append(notify, func() { fn(change) })
		}
	}
	return notify
}
