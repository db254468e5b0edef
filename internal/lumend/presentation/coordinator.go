// Package presentation drives the glitch-free handoff between the item a
// canvas is showing and the next one to show. Each canvas owns one
// Coordinator with two symmetric buffers: the next item is prepared
// off-screen in the back buffer and the roles are swapped only once the
// content signals readiness, so the screen never flickers or goes black
// between items.
package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/analytics"
	"github.com/lumen-signage/lumen-player/internal/lumend/render"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

// State is the coordinator's presentation state.
type State string

const (
	// StateIdle means nothing has been mounted yet
	StateIdle State = "IDLE"
	// StatePreparing means the back buffer is loading the next item while
	// the front stays visible
	StatePreparing State = "PREPARING"
	// StateSwapped means the buffers exchanged roles and the new front is
	// on air
	StateSwapped State = "SWAPPED"
	// StateBlack means no content is active; both buffers are detached and
	// the canvas shows its solid black backdrop
	StateBlack State = "BLACK"
)

type buffer struct {
	kind     render.Kind
	renderer render.Renderer
}

// Options configures a Coordinator.
type Options struct {
	CanvasID string
	Factory  render.Factory
	Recorder analytics.Recorder
	Logger   *slog.Logger
	// ReadyTimeout bounds the wait for the renderer's loaded signal; on
	// timeout the swap proceeds anyway rather than blocking rotation
	ReadyTimeout time.Duration
	// SettleDelay is the fallback wait for renderers without a loaded
	// signal, a few paint frames' worth
	SettleDelay time.Duration
	Bounds      v1alpha1.Rect
}

// Coordinator is the per-canvas presentation state machine. It is driven
// from a single canvas loop and is deliberately lock-free: there is no true
// concurrency per canvas, only sequential ticks.
type Coordinator struct {
	canvasID     string
	factory      render.Factory
	recorder     analytics.Recorder
	logger       *slog.Logger
	readyTimeout time.Duration
	settleDelay  time.Duration

	state   State
	front   buffer
	back    buffer
	bounds  v1alpha1.Rect
	showing string
	since   time.Time
	span    analytics.Span
	hasSpan bool
}

// New creates a coordinator in the Idle state.
func New(opts Options) *Coordinator {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 5 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 50 * time.Millisecond
	}
	return &Coordinator{
		canvasID:     opts.CanvasID,
		factory:      opts.Factory,
		recorder:     opts.Recorder,
		logger:       opts.Logger.With("canvas", opts.CanvasID),
		readyTimeout: opts.ReadyTimeout,
		settleDelay:  opts.SettleDelay,
		bounds:       opts.Bounds,
		state:        StateIdle,
	}
}

// State returns the current presentation state.
func (c *Coordinator) State() State {
	return c.state
}

// Showing returns the identity of the item on air, empty when none.
func (c *Coordinator) Showing() string {
	return c.showing
}

// ShowingSince returns when the current item became visible.
func (c *Coordinator) ShowingSince() time.Time {
	return c.since
}

// Present prepares the item in the back buffer and swaps it on air. The
// manifest version stamped at selection time is re-checked against current
// just before committing: if the manifest advanced while the buffer was
// loading, the prepared content is discarded and ErrStaleManifest returned,
// so content chosen under an obsolete manifest never reaches the screen.
func (c *Coordinator) Present(ctx context.Context, item *schedule.Item, version uint64, current func() uint64) error {
	identity := item.Identity()
	if identity == c.showing && c.showing != "" {
		// Same content already on air: re-preparing it would only flicker
		return nil
	}

	kind := item.Media.Kind()
	if kind == v1alpha1.MediaKindUnknown {
		return fmt.Errorf("item %s has no renderable content", identity)
	}

	entryState := c.state
	if err := c.ensureBack(kind); err != nil {
		return err
	}

	c.state = StatePreparing
	c.back.renderer.SetBounds(c.bounds)
	if err := c.back.renderer.Assign(item.Media); err != nil {
		c.state = entryState
		return fmt.Errorf("assigning content to back buffer: %w", err)
	}
	if err := c.back.renderer.Play(); err != nil {
		c.state = entryState
		return fmt.Errorf("starting back buffer playback: %w", err)
	}

	c.awaitReady(ctx, c.back.renderer, identity)
	if err := ctx.Err(); err != nil {
		c.state = entryState
		return err
	}

	if now := current(); now != version {
		if err := c.back.renderer.Stop(); err != nil {
			c.logger.Warn("stopping stale back buffer", "error", err)
		}
		c.state = entryState
		return ErrStaleManifest{Canvas: c.canvasID, Selected: version, Current: now}
	}

	c.swap(identity)
	return nil
}

// ensureBack makes the back buffer hold a renderer of the right kind,
// replacing a mismatched one.
func (c *Coordinator) ensureBack(kind render.Kind) error {
	if c.back.renderer != nil && c.back.kind == kind {
		return nil
	}
	if c.back.renderer != nil {
		if err := c.back.renderer.Stop(); err != nil {
			c.logger.Warn("stopping replaced back buffer", "error", err)
		}
		c.back.renderer.Release()
	}
	r, err := c.factory.New(kind)
	if err != nil {
		c.back = buffer{}
		return fmt.Errorf("creating %s renderer: %w", kind, err)
	}
	c.back = buffer{kind: kind, renderer: r}
	return nil
}

// awaitReady waits for the renderer's loaded signal, bounded by the ready
// timeout. Readiness is best-effort: a slow load swaps possibly-unready
// content rather than deadlocking the rotation loop.
func (c *Coordinator) awaitReady(ctx context.Context, r render.Renderer, identity string) {
	ch := r.Loaded()
	if ch == nil {
		select {
		case <-ctx.Done():
		case <-time.After(c.settleDelay):
		}
		return
	}
	select {
	case <-ch:
	case <-ctx.Done():
	case <-time.After(c.readyTimeout):
		c.logger.Warn("readiness timeout, swapping anyway", "item", identity)
	}
}

// swap atomically exchanges the buffer roles and moves analytics spans to
// the new item.
func (c *Coordinator) swap(identity string) {
	old := c.front
	c.front = c.back
	c.back = old

	if c.back.renderer != nil {
		if err := c.back.renderer.Pause(); err != nil {
			c.logger.Warn("pausing outgoing buffer", "error", err)
		}
	}
	// Second play request after the role flip defeats autoplay edge cases
	// where the first one landed while the buffer was still hidden
	if err := c.front.renderer.Play(); err != nil {
		c.logger.Warn("replay on new front buffer", "error", err)
	}

	if c.hasSpan {
		c.recorder.Finish(c.span)
	}
	c.span = c.recorder.Start(c.canvasID, identity)
	c.hasSpan = true

	c.showing = identity
	c.since = time.Now()
	c.state = StateSwapped
	c.logger.Info("item on air", "item", identity)
}

// Blackout stops and detaches both buffers so no audio or CPU keeps
// running; the bare canvas shows its solid black backdrop. This is the
// defined terminal state for "nothing active", not an error.
func (c *Coordinator) Blackout() {
	if c.state == StateBlack {
		return
	}
	c.detach(&c.front)
	c.detach(&c.back)

	if c.hasSpan {
		c.recorder.Finish(c.span)
		c.hasSpan = false
	}
	c.showing = ""
	c.since = time.Time{}
	c.state = StateBlack
	c.logger.Info("canvas blacked out")
}

func (c *Coordinator) detach(b *buffer) {
	if b.renderer == nil {
		return
	}
	if err := b.renderer.Stop(); err != nil {
		c.logger.Warn("stopping buffer during blackout", "error", err)
	}
	b.renderer.Release()
	*b = buffer{}
}

// SetBounds repositions the canvas mount point without disrupting in-flight
// playback.
func (c *Coordinator) SetBounds(r v1alpha1.Rect) {
	c.bounds = r
	if c.front.renderer != nil {
		c.front.renderer.SetBounds(r)
	}
	if c.back.renderer != nil {
		c.back.renderer.SetBounds(r)
	}
}

// Close detaches everything; the coordinator must not be used afterwards.
func (c *Coordinator) Close() {
	c.Blackout()
}
