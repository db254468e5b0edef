// Package v1alpha1 contains API types for the Lumen Signage player
package v1alpha1

// MediaKind identifies what kind of content document an item carries
type MediaKind string

const (
	// MediaKindLayout is a composed document of regions with timed nodes
	MediaKindLayout MediaKind = "layout"
	// MediaKindPlaylist is an ordered sequence of child items paced by its
	// own internal player
	MediaKindPlaylist MediaKind = "playlist"
	// MediaKindUnknown marks a payload the player cannot render; items
	// carrying it are never eligible to be active
	MediaKindUnknown MediaKind = ""
)

// Media is a renderable content document, either a layout or a playlist.
type Media struct {
	// Type tags the document kind explicitly ("layout" or "playlist")
	Type string `json:"type,omitempty"`
	// Name is a human-readable document name
	Name string `json:"name,omitempty"`
	// Width is the design width of a layout in pixels
	Width int `json:"width,omitempty"`
	// Height is the design height of a layout in pixels
	Height int `json:"height,omitempty"`
	// Regions composes a layout from positioned sub-areas
	Regions []Region `json:"regions,omitempty"`
	// Items lists playlist children; its presence marks a playlist even
	// without an explicit type tag
	Items []PlaylistEntry `json:"items,omitempty"`
	// Loop indicates whether a playlist repeats after its last child
	Loop bool `json:"loop,omitempty"`
}

// Kind resolves the document kind. An explicit type tag wins; otherwise a
// child-items sequence marks a playlist and regions mark a layout.
func (m *Media) Kind() MediaKind {
	if m == nil {
		return MediaKindUnknown
	}
	switch m.Type {
	case string(MediaKindPlaylist):
		return MediaKindPlaylist
	case string(MediaKindLayout):
		return MediaKindLayout
	case "":
		if len(m.Items) > 0 {
			return MediaKindPlaylist
		}
		if len(m.Regions) > 0 {
			return MediaKindLayout
		}
	}
	return MediaKindUnknown
}

// Region is a positioned sub-area of a layout with its own timeline.
type Region struct {
	// ID identifies the region within its layout
	ID string `json:"id,omitempty"`
	// Bounds positions the region within the layout
	Bounds Rect `json:"bounds"`
	// Timeline schedules media within the region
	Timeline []TimelineNode `json:"timeline,omitempty"`
}

// TimelineNode places one piece of media on a region timeline.
type TimelineNode struct {
	// MediaRef identifies the media asset to show
	MediaRef string `json:"mediaRef,omitempty"`
	// StartMillis is the node's start offset from the layout start
	StartMillis int64 `json:"startMillis,omitempty"`
	// DurationMillis is how long the node plays
	DurationMillis int64 `json:"durationMillis,omitempty"`
}

// PlaylistEntry is one child of a playlist document.
type PlaylistEntry struct {
	// MediaRef identifies the media asset to show
	MediaRef string `json:"mediaRef,omitempty"`
	// DurationMillis is how long the entry plays; 0 means asset length
	DurationMillis int64 `json:"durationMillis,omitempty"`
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}
