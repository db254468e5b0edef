// Package engine runs the per-canvas scheduling loops and owns manifest
// application across canvases.
package engine

import (
	"context"
	"time"
)

// EventType represents types of player events
type EventType string

const (
	// EventItemShown indicates an item was swapped on air
	EventItemShown EventType = "itemShown"
	// EventBlackout indicates a canvas went black because nothing is active
	EventBlackout EventType = "blackout"
	// EventManifestApplied indicates a new manifest took effect
	EventManifestApplied EventType = "manifestApplied"
	// EventCanvasAdded indicates a canvas loop was started
	EventCanvasAdded EventType = "canvasAdded"
	// EventCanvasRemoved indicates a canvas loop was torn down
	EventCanvasRemoved EventType = "canvasRemoved"
)

// Event describes a state change in the player.
type Event struct {
	Type            EventType
	CanvasID        string
	Item            string
	ManifestVersion uint64
	Timestamp       time.Time
}

// EventPublisher notifies observers about player events. Publishing must
// never block the canvas loop; implementations drop rather than stall.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards all events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
