// Package feed is the client-side core of the timeline: it owns the live
// raw event and image lists for one vehicle, renders them into cards, and
// reflects asynchronous extraction progress without blocking interaction.
package feed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tbraack/garagelog/internal/timeline"
	"github.com/tbraack/garagelog/internal/vehicle"
)

// Config holds the controller's dependencies and tuning knobs.
type Config struct {
	Client       *Client
	VehicleID    string
	Clock        Clock         // nil for the real clock
	PollInterval time.Duration // zero for DefaultPollInterval
	PulseTTL     time.Duration // zero for DefaultPulseTTL
}

// Controller owns the live raw-event list and image statuses for one
// vehicle. It is the sole writer: every refresh replaces both lists
// wholesale so derived views never see a partial mix of old and new data.
type Controller struct {
	mu        sync.Mutex
	client    *Client
	vehicleID string
	registry  *timeline.Registry
	tracker   *Tracker
	poller    *Poller

	events   []vehicle.RawEvent
	images   []vehicle.LinkedImage
	expanded map[string]bool
}

// NewController creates a feed controller for one vehicle.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.VehicleID == "" {
		return nil, fmt.Errorf("vehicle ID is required")
	}

	c := &Controller{
		client:    cfg.Client,
		vehicleID: cfg.VehicleID,
		registry:  timeline.NewRegistry(),
		tracker:   NewTracker(cfg.Clock, cfg.PulseTTL),
		expanded:  make(map[string]bool),
	}
	c.poller = NewPoller(cfg.Clock, cfg.PollInterval, c.Refresh, c.tracker.AnyActive)
	return c, nil
}

// Refresh fetches the event and image lists and replaces the owned state
// wholesale. The poller re-arms itself afterwards when anything is still
// processing.
func (c *Controller) Refresh(ctx context.Context) error {
	events, err := c.client.ListEvents(ctx, c.vehicleID)
	if err != nil {
		return fmt.Errorf("refreshing events: %w", err)
	}
	images, err := c.client.ListImages(ctx, c.vehicleID)
	if err != nil {
		return fmt.Errorf("refreshing images: %w", err)
	}

	c.mu.Lock()
	c.events = events
	c.images = images
	c.mu.Unlock()

	c.tracker.Apply(images)
	c.poller.Kick()
	return nil
}

// Events returns a copy of the current raw event list.
func (c *Controller) Events() []vehicle.RawEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]vehicle.RawEvent(nil), c.events...)
}

// Images returns a copy of the current image list.
func (c *Controller) Images() []vehicle.LinkedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]vehicle.LinkedImage(nil), c.images...)
}

// Cards renders the current events into display-ready cards, newest event
// date first with undated events at the end.
func (c *Controller) Cards() []timeline.CardViewModel {
	c.mu.Lock()
	events := append([]vehicle.RawEvent(nil), c.events...)
	c.mu.Unlock()

	canonical := make([]timeline.CanonicalEvent, 0, len(events))
	for _, event := range events {
		canonical = append(canonical, timeline.Normalize(event))
	}
	sort.SliceStable(canonical, func(i, j int) bool {
		a, b := canonical[i], canonical[j]
		if a.TimestampValid != b.TimestampValid {
			return a.TimestampValid
		}
		return a.Timestamp.After(b.Timestamp)
	})

	cards := make([]timeline.CardViewModel, 0, len(canonical))
	for _, ev := range canonical {
		cards = append(cards, c.registry.Resolve(ev.Type).CardData(ev))
	}
	return cards
}

// Render produces the card for a single raw event.
func (c *Controller) Render(event vehicle.RawEvent) timeline.CardViewModel {
	return c.registry.Render(event)
}

// ToggleExpanded flips an event card's expansion state and returns the new
// state.
func (c *Controller) ToggleExpanded(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expanded[eventID] {
		delete(c.expanded, eventID)
		return false
	}
	c.expanded[eventID] = true
	return true
}

// IsExpanded reports whether an event card is expanded.
func (c *Controller) IsExpanded(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded[eventID]
}

// DeleteEvent removes an event on the server and refreshes the feed.
func (c *Controller) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.client.DeleteEvent(ctx, c.vehicleID, eventID); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.expanded, eventID)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPrimary updates an image's primary flag on the server and refreshes.
func (c *Controller) SetPrimary(ctx context.Context, imageID, action string) error {
	if err := c.client.SetPrimary(ctx, c.vehicleID, imageID, action); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Reprocess asks the server to re-run extraction for one image and resumes
// polling for it. Only that image leaves its terminal state.
func (c *Controller) Reprocess(ctx context.Context, imageID string) error {
	if err := c.client.ProcessImage(ctx, c.vehicleID, imageID); err != nil {
		return err
	}
	c.tracker.MarkReprocessing(imageID)
	c.poller.Kick()
	return nil
}

// Subscribe registers a callback for one image's processing-status changes
// and returns the unsubscribe function.
func (c *Controller) Subscribe(imageID string, fn func(Change)) func() {
	return c.tracker.Subscribe(imageID, fn)
}

// JustCompleted reports whether an image is inside its completion pulse.
func (c *Controller) JustCompleted(imageID string) bool {
	return c.tracker.JustCompleted(imageID)
}

// Polling reports whether any tracked image still needs refreshing.
func (c *Controller) Polling() bool {
	return c.tracker.AnyActive()
}

// Close tears the feed down: the poll timer and all pulse timers are
// cancelled so nothing updates state without a live consumer.
func (c *Controller) Close() {
	c.poller.Close()
	c.tracker.Close()
}
