package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/presentation"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

type update struct {
	items   []schedule.Item
	version uint64
}

// Engine is the scheduling loop for one canvas: compute snapshot, select,
// present or black out, sleep until the next boundary or rotation slot.
// All scheduling work happens on the loop goroutine; the only cross-
// goroutine traffic is buffered channels for manifest and geometry updates
// and an atomic version stamp for cooperative cancellation of in-flight
// prepares.
type Engine struct {
	canvasID  string
	coord     *presentation.Coordinator
	rotator   *schedule.Rotator
	logger    *slog.Logger
	publisher EventPublisher

	updates  chan update
	geometry chan v1alpha1.Rect
	version  atomic.Uint64

	items []schedule.Item

	statusMu sync.Mutex
	status   v1alpha1.CanvasStatus
}

// NewEngine creates a canvas loop around the given coordinator.
func NewEngine(canvasID string, coord *presentation.Coordinator, rotCfg schedule.RotationConfig, publisher EventPublisher, logger *slog.Logger) *Engine {
	e := &Engine{
		canvasID:  canvasID,
		coord:     coord,
		rotator:   schedule.NewRotator(rotCfg),
		logger:    logger.With("canvas", canvasID),
		publisher: publisher,
		updates:   make(chan update, 1),
		geometry:  make(chan v1alpha1.Rect, 1),
	}
	e.status = v1alpha1.CanvasStatus{ID: canvasID, State: string(presentation.StateIdle)}
	return e
}

// Apply hands the canvas its slice of a freshly normalized manifest. The
// version must be the manifest-wide stamp; a loop that is mid-prepare for
// an older version will observe the new stamp and abandon its buffer. A
// pending unconsumed update is replaced, only the newest manifest matters.
func (e *Engine) Apply(items []schedule.Item, version uint64) {
	e.version.Store(version)
	for {
		select {
		case e.updates <- update{items: items, version: version}:
			return
		case <-e.updates:
		}
	}
}

// SetBounds repositions the canvas without disturbing playback. A pending
// unconsumed rectangle is replaced.
func (e *Engine) SetBounds(r v1alpha1.Rect) {
	for {
		select {
		case e.geometry <- r:
			return
		case <-e.geometry:
		}
	}
}

// Status returns a copy of the canvas status for the local API.
func (e *Engine) Status() v1alpha1.CanvasStatus {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.status
}

// Run drives the loop until the context is cancelled. Ticks are strictly
// sequential: the next tick is never scheduled until the previous one's
// prepare or swap has settled or been aborted.
func (e *Engine) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.coord.Close()
			return
		case u := <-e.updates:
			e.items = u.items
			e.rotator.Reset()
			e.logger.Debug("manifest applied to canvas",
				"version", u.version,
				"items", len(u.items),
			)
		case r := <-e.geometry:
			e.coord.SetBounds(r)
			e.setBoundsStatus(r)
		case <-timer.C:
		}

		sleep := e.tick(ctx)
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(sleep)
	}
}

// tick runs one evaluate-select-present cycle. Nothing that happens inside
// a tick may kill the loop: errors keep the current content and the loop
// re-arms itself on its next deadline.
func (e *Engine) tick(ctx context.Context) (sleep time.Duration) {
	sleep = e.rotator.Config().EmptyRecheck
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick panicked, continuing", "panic", r)
		}
	}()

	now := time.Now()
	sel := e.rotator.Next(e.items, now)
	sleep = sel.Sleep

	if sel.Item == nil {
		if e.coord.State() != presentation.StateBlack {
			e.coord.Blackout()
			e.publish(ctx, Event{Type: EventBlackout, CanvasID: e.canvasID})
		}
		e.updateStatus(now, sleep)
		return sleep
	}

	if sel.Item.Identity() != e.coord.Showing() {
		version := e.version.Load()
		err := e.coord.Present(ctx, sel.Item, version, e.version.Load)
		switch {
		case err == nil:
			e.publish(ctx, Event{
				Type:            EventItemShown,
				CanvasID:        e.canvasID,
				Item:            sel.Item.Identity(),
				ManifestVersion: version,
			})
		case errors.As(err, &presentation.ErrStaleManifest{}):
			// The new manifest is already queued; re-arm quickly and let
			// the next tick select under it
			e.logger.Debug("abandoned stale prepare", "item", sel.Item.Identity())
			sleep = e.rotator.Config().Floor
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		default:
			e.logger.Error("presenting item failed, retaining current content",
				"item", sel.Item.Identity(),
				"error", err,
			)
		}
	}

	e.updateStatus(now, sleep)
	return sleep
}

func (e *Engine) publish(ctx context.Context, event Event) {
	event.Timestamp = time.Now()
	if event.ManifestVersion == 0 {
		event.ManifestVersion = e.version.Load()
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("publishing event", "type", event.Type, "error", err)
	}
}

func (e *Engine) updateStatus(now time.Time, sleep time.Duration) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.State = string(e.coord.State())
	e.status.CurrentItem = e.coord.Showing()
	e.status.CurrentSince = e.coord.ShowingSince()
	e.status.NextWake = now.Add(sleep)
}

func (e *Engine) setBoundsStatus(r v1alpha1.Rect) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.Bounds = r
}
