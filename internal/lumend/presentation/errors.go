// Package presentation drives the per-canvas double-buffer handoff
package presentation

import "fmt"

// ErrStaleManifest indicates a prepared swap was abandoned because the
// manifest advanced while the back buffer was loading.
type ErrStaleManifest struct {
	Canvas   string
	Selected uint64
	Current  uint64
}

func (e ErrStaleManifest) Error() string {
	return fmt.Sprintf("canvas %s: manifest advanced from %d to %d during prepare, discarding buffer",
		e.Canvas, e.Selected, e.Current)
}
