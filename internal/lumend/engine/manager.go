package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/analytics"
	"github.com/lumen-signage/lumen-player/internal/lumend/presentation"
	"github.com/lumen-signage/lumen-player/internal/lumend/render"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Factory      render.Factory
	Recorder     analytics.Recorder
	Publisher    EventPublisher
	Logger       *slog.Logger
	Rotation     schedule.RotationConfig
	ReadyTimeout time.Duration
}

type canvasEntry struct {
	engine *Engine
	cancel context.CancelFunc
	done   chan struct{}
	bounds v1alpha1.Rect
}

// Manager owns one engine/coordinator pair per display canvas. Canvases
// never share rotation state or buffers; the manager's job is routing:
// splitting each manifest across canvases, forwarding geometry, and
// creating or tearing down loops as canvases come and go.
type Manager struct {
	opts ManagerOptions

	mu            sync.Mutex
	canvases      map[string]*canvasEntry
	defaultCanvas string
	order         []string
	items         []schedule.Item
	itemCount     int

	version   atomic.Uint64
	startedAt time.Time
	runCtx    context.Context
	runCancel context.CancelFunc
}

// NewManager creates an empty manager. Canvases are added with
// EnsureCanvas; the first one added becomes the default canvas that
// unbound items route to.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Publisher == nil {
		opts.Publisher = NoopPublisher{}
	}
	if opts.Recorder == nil {
		opts.Recorder = analytics.NoopRecorder{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:      opts,
		canvases:  make(map[string]*canvasEntry),
		startedAt: time.Now(),
		runCtx:    ctx,
		runCancel: cancel,
	}
}

// EnsureCanvas starts a loop for the canvas if one is not already running,
// and applies the given geometry either way.
func (m *Manager) EnsureCanvas(id string, bounds v1alpha1.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.canvases[id]; ok {
		entry.bounds = bounds
		entry.engine.SetBounds(bounds)
		return
	}

	coord := presentation.New(presentation.Options{
		CanvasID:     id,
		Factory:      m.opts.Factory,
		Recorder:     m.opts.Recorder,
		Logger:       m.opts.Logger,
		ReadyTimeout: m.opts.ReadyTimeout,
		Bounds:       bounds,
	})
	eng := NewEngine(id, coord, m.opts.Rotation, m.opts.Publisher, m.opts.Logger)

	ctx, cancel := context.WithCancel(m.runCtx)
	entry := &canvasEntry{engine: eng, cancel: cancel, done: make(chan struct{}), bounds: bounds}
	m.canvases[id] = entry
	m.order = append(m.order, id)
	if m.defaultCanvas == "" {
		m.defaultCanvas = id
	}

	go func() {
		defer close(entry.done)
		eng.Run(ctx)
	}()

	eng.SetBounds(bounds)
	if len(m.items) > 0 {
		eng.Apply(m.routeLocked()[id], m.version.Load())
	}
	m.publish(Event{Type: EventCanvasAdded, CanvasID: id})
}

// RemoveCanvas tears the canvas loop down, detaching its renderers.
func (m *Manager) RemoveCanvas(id string) {
	m.mu.Lock()
	entry, ok := m.canvases[id]
	if ok {
		delete(m.canvases, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		if m.defaultCanvas == id {
			m.defaultCanvas = ""
			if len(m.order) > 0 {
				m.defaultCanvas = m.order[0]
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	entry.cancel()
	<-entry.done
	m.publish(Event{Type: EventCanvasRemoved, CanvasID: id})
}

// SetBounds forwards new geometry to the canvas loop.
func (m *Manager) SetBounds(id string, bounds v1alpha1.Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.canvases[id]; ok {
		entry.bounds = bounds
		entry.engine.SetBounds(bounds)
	}
}

// Apply replaces the manifest across all canvases. The version stamp
// increments monotonically; loops preparing under an older stamp abandon
// their buffers before committing.
func (m *Manager) Apply(items []schedule.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()

	version := m.version.Add(1)
	m.items = items
	m.itemCount = len(items)

	routed := m.routeLocked()
	for id, entry := range m.canvases {
		entry.engine.Apply(routed[id], version)
	}
	m.publish(Event{Type: EventManifestApplied, ManifestVersion: version})
	m.opts.Logger.Info("manifest applied",
		"version", version,
		"items", len(items),
		"canvases", len(m.canvases),
	)
}

// routeLocked splits the current items per canvas. Unbound items go to the
// default canvas; items bound to an unknown canvas are dropped with a
// warning. Every canvas gets an entry so emptied canvases go black.
func (m *Manager) routeLocked() map[string][]schedule.Item {
	routed := make(map[string][]schedule.Item, len(m.canvases))
	for id := range m.canvases {
		routed[id] = nil
	}
	for _, item := range m.items {
		target := item.CanvasID
		if target == "" {
			target = m.defaultCanvas
		}
		if _, ok := m.canvases[target]; !ok {
			m.opts.Logger.Warn("item bound to unknown canvas, dropping",
				"item", item.Identity(),
				"canvas", item.CanvasID,
			)
			continue
		}
		routed[target] = append(routed[target], item)
	}
	// Re-index per canvas so rotation tie-breaks stay positional within
	// each canvas's own sequence
	for _, items := range routed {
		for i := range items {
			items[i].Index = i
		}
	}
	return routed
}

// Version returns the current manifest version.
func (m *Manager) Version() uint64 {
	return m.version.Load()
}

// Status assembles the player status for the local API.
func (m *Manager) Status() v1alpha1.PlayerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := v1alpha1.PlayerStatus{
		StartedAt:       m.startedAt,
		ManifestVersion: m.version.Load(),
		ItemCount:       m.itemCount,
	}
	for _, id := range m.order {
		entry := m.canvases[id]
		cs := entry.engine.Status()
		cs.Bounds = entry.bounds
		status.Canvases = append(status.Canvases, cs)
	}
	return status
}

// CanvasStatus returns one canvas's status.
func (m *Manager) CanvasStatus(id string) (v1alpha1.CanvasStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.canvases[id]
	if !ok {
		return v1alpha1.CanvasStatus{}, false
	}
	cs := entry.engine.Status()
	cs.Bounds = entry.bounds
	return cs, true
}

// Close tears down every canvas loop and waits for them to settle.
func (m *Manager) Close() {
	m.mu.Lock()
	entries := make([]*canvasEntry, 0, len(m.canvases))
	for _, entry := range m.canvases {
		entries = append(entries, entry)
	}
	m.canvases = make(map[string]*canvasEntry)
	m.order = nil
	m.mu.Unlock()

	m.runCancel()
	for _, entry := range entries {
		<-entry.done
	}
}

func (m *Manager) publish(event Event) {
	event.Timestamp = time.Now()
	if event.ManifestVersion == 0 {
		event.ManifestVersion = m.version.Load()
	}
	if err := m.opts.Publisher.Publish(m.runCtx, event); err != nil {
		m.opts.Logger.Warn("publishing event", "type", event.Type, "error", err)
	}
}
