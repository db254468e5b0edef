// Package v1alpha1 contains API types for the Lumen Signage player
package v1alpha1

import "time"

// PlayerStatus describes the running player for the local status API.
type PlayerStatus struct {
	// Version is the player build version
	Version string `json:"version"`
	// StartedAt is when the player process started
	StartedAt time.Time `json:"startedAt"`
	// ManifestVersion counts applied manifests, starting at 1
	ManifestVersion uint64 `json:"manifestVersion"`
	// ItemCount is the number of recognized items in the current manifest
	ItemCount int `json:"itemCount"`
	// Canvases lists per-canvas state
	Canvases []CanvasStatus `json:"canvases"`
}

// CanvasStatus describes one display canvas.
type CanvasStatus struct {
	// ID names the canvas
	ID string `json:"id"`
	// State is the presentation state (IDLE, PREPARING, SWAPPED, BLACK)
	State string `json:"state"`
	// CurrentItem identifies the item on air, empty when black
	CurrentItem string `json:"currentItem,omitempty"`
	// CurrentSince is when the current item became visible
	CurrentSince time.Time `json:"currentSince,omitempty"`
	// NextWake is when the canvas loop re-evaluates at the latest
	NextWake time.Time `json:"nextWake,omitempty"`
	// Bounds is the canvas geometry
	Bounds Rect `json:"bounds"`
}

// PlaybackSpan records one interval during which an item was visible.
type PlaybackSpan struct {
	// ID uniquely identifies the span
	ID string `json:"id"`
	// CanvasID names the canvas the item was visible on
	CanvasID string `json:"canvasId"`
	// ItemID identifies the item that was visible
	ItemID string `json:"itemId"`
	// StartedAt is when the item became visible
	StartedAt time.Time `json:"startedAt"`
	// EndedAt is when the item stopped being visible
	EndedAt time.Time `json:"endedAt,omitempty"`
	// DurationMillis is the elapsed visible time
	DurationMillis int64 `json:"durationMillis,omitempty"`
}

// EventFrame is one message on the status event stream.
type EventFrame struct {
	// Type is the event type (itemShown, blackout, manifestApplied, ...)
	Type string `json:"type"`
	// CanvasID names the affected canvas, if any
	CanvasID string `json:"canvasId,omitempty"`
	// Item identifies the affected item, if any
	Item string `json:"item,omitempty"`
	// ManifestVersion is the manifest version in effect
	ManifestVersion uint64 `json:"manifestVersion,omitempty"`
	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`
}
