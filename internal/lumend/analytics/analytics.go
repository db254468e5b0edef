// Package analytics defines the playback-span contract between the
// presentation layer and whatever collects proof-of-play data. Transport
// and persistence of spans live outside the player.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Span is one interval during which an item was visible on a canvas.
type Span struct {
	// ID uniquely identifies the span
	ID uuid.UUID
	// CanvasID names the canvas the item was visible on
	CanvasID string
	// ItemID identifies the item that was visible
	ItemID string
	// StartedAt is when the item became visible
	StartedAt time.Time
	// EndedAt is when the item stopped being visible
	EndedAt time.Time
	// Duration is the elapsed visible time
	Duration time.Duration
}

// Recorder receives span boundaries from the presentation coordinator: a
// start when an item becomes visible, a finish when it stops being visible.
type Recorder interface {
	// Start opens a span for the item that just became visible
	Start(canvasID, itemID string) Span

	// Finish closes a span with its elapsed duration
	Finish(span Span)
}

// NoopRecorder discards all spans.
type NoopRecorder struct{}

func (NoopRecorder) Start(canvasID, itemID string) Span {
	return Span{ID: uuid.New(), CanvasID: canvasID, ItemID: itemID, StartedAt: time.Now()}
}

func (NoopRecorder) Finish(Span) {}
