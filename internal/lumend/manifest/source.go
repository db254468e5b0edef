// Package manifest loads schedule manifests from disk and feeds them to
// the canvas loops, optionally re-applying on file change.
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/schedule"
)

// Applier receives normalized manifests. Implemented by the engine manager.
type Applier interface {
	Apply(items []schedule.Item)
}

// Options configures a Source.
type Options struct {
	// Path is the manifest file to load and watch
	Path string
	// Debounce coalesces bursts of filesystem events into one reload
	Debounce time.Duration
	Logger   *slog.Logger
}

// Source reads a manifest file, normalizes whichever shape it finds, and
// applies the result. A manifest that fails to parse entirely is rejected
// without disturbing the current schedule; individually malformed items are
// the normalizer's business and degrade per item instead.
type Source struct {
	path       string
	debounce   time.Duration
	normalizer *schedule.Normalizer
	applier    Applier
	logger     *slog.Logger
}

// NewSource creates a manifest source.
func NewSource(opts Options, normalizer *schedule.Normalizer, applier Applier) *Source {
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}
	return &Source{
		path:       opts.Path,
		debounce:   opts.Debounce,
		normalizer: normalizer,
		applier:    applier,
		logger:     opts.Logger.With("component", "manifest", "path", opts.Path),
	}
}

// Load reads the manifest file and, when it parses, applies it. The
// returned count is the number of recognized items.
func (s *Source) Load() (int, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("reading manifest: %w", err)
	}
	items, err := s.normalize(raw)
	if err != nil {
		return 0, err
	}
	s.applier.Apply(items)
	return len(items), nil
}

// Reload re-reads and re-applies the manifest. Exposed through the local
// API so operators can force a pickup without touching the file.
func (s *Source) Reload() (int, error) {
	return s.Load()
}

func (s *Source) normalize(raw []byte) ([]schedule.Item, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("manifest is not valid JSON")
	}
	msg := json.RawMessage(raw)
	if v1alpha1.IsLegacyManifest(msg) {
		var legacy v1alpha1.LegacyManifest
		if err := json.Unmarshal(msg, &legacy); err != nil {
			return nil, fmt.Errorf("decoding legacy manifest: %w", err)
		}
		return s.normalizer.ConvertLegacy(&legacy), nil
	}
	return s.normalizer.Normalize(msg), nil
}

// Watch re-applies the manifest whenever the file changes, until the
// channel closed by stop is signalled. Editors and sync agents typically
// replace the file via rename, which drops the watch on some platforms, so
// the path is re-added after every event batch.
func (s *Source) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating manifest watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file so atomic replaces
	// (write temp, rename over) keep being observed
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.logger.Info("watching manifest for changes")

	var pending *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(s.debounce)
				fire = pending.C
			} else {
				if !pending.Stop() {
					<-fire
				}
				pending.Reset(s.debounce)
			}
		case <-fire:
			pending = nil
			fire = nil
			count, err := s.Load()
			if err != nil {
				s.logger.Error("reloading manifest after change, keeping current schedule",
					"error", err,
				)
				continue
			}
			s.logger.Info("manifest reloaded", "items", count)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("manifest watcher error", "error", err)
		}
	}
}
