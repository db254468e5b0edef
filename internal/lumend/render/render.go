// Package render defines the contract between the player and the opaque
// content-rendering component. The player never composites pixels itself;
// it drives renderer handles through this narrow interface and treats the
// implementation as a black box.
package render

import (
	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// Kind identifies which renderer implementation a content document needs.
type Kind = v1alpha1.MediaKind

// Renderer is one content-renderer handle. A handle hosts exactly one kind
// of document at a time; the presentation coordinator owns two of them per
// canvas and swaps their roles.
type Renderer interface {
	// Assign loads a content document into the renderer
	Assign(doc *v1alpha1.Media) error

	// Play starts or resumes playback
	Play() error

	// Pause halts playback but keeps the document mounted
	Pause() error

	// Stop halts playback and unloads the document
	Stop() error

	// Release detaches the handle entirely; no audio or CPU may keep
	// running afterwards. The handle must not be reused.
	Release()

	// SetBounds moves the renderer's mount point without disrupting
	// in-flight playback
	SetBounds(r v1alpha1.Rect)

	// Loaded returns a channel closed once the assigned content signals
	// readiness, or nil when the renderer has no readiness signal and the
	// caller should fall back to a settle heuristic
	Loaded() <-chan struct{}
}

// Factory creates renderer handles by content kind.
type Factory interface {
	New(kind Kind) (Renderer, error)
}
