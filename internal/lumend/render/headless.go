package render

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// HeadlessFactory creates renderers that log playback actions instead of
// drawing. It backs the daemon when no GPU renderer bridge is attached,
// which keeps the scheduling loop observable on development machines.
type HeadlessFactory struct {
	logger *slog.Logger
}

// NewHeadlessFactory creates a factory for logging renderers.
func NewHeadlessFactory(logger *slog.Logger) *HeadlessFactory {
	return &HeadlessFactory{logger: logger}
}

func (f *HeadlessFactory) New(kind Kind) (Renderer, error) {
	if kind != v1alpha1.MediaKindLayout && kind != v1alpha1.MediaKindPlaylist {
		return nil, fmt.Errorf("no renderer for content kind %q", kind)
	}
	r := &headlessRenderer{
		kind:   kind,
		logger: f.logger.With("renderer", string(kind)),
		loaded: make(chan struct{}),
	}
	return r, nil
}

type headlessRenderer struct {
	kind   Kind
	logger *slog.Logger

	mu       sync.Mutex
	doc      *v1alpha1.Media
	loaded   chan struct{}
	signaled bool
	released bool
}

func (r *headlessRenderer) Assign(doc *v1alpha1.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return fmt.Errorf("renderer released")
	}
	r.doc = doc
	// Nothing to decode, so content is ready as soon as it is assigned
	if !r.signaled {
		r.signaled = true
		close(r.loaded)
	}
	r.logger.Debug("content assigned", "name", doc.Name)
	return nil
}

func (r *headlessRenderer) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc != nil {
		r.logger.Info("playing", "name", r.doc.Name)
	}
	return nil
}

func (r *headlessRenderer) Pause() error {
	r.logger.Debug("paused")
	return nil
}

func (r *headlessRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = nil
	r.logger.Debug("stopped")
	return nil
}

func (r *headlessRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = nil
	r.released = true
	r.logger.Debug("released")
}

func (r *headlessRenderer) SetBounds(rect v1alpha1.Rect) {
	r.logger.Debug("bounds updated",
		"x", rect.X, "y", rect.Y, "width", rect.Width, "height", rect.Height)
}

func (r *headlessRenderer) Loaded() <-chan struct{} {
	return r.loaded
}
