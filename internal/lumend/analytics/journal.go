package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// Journal is an in-memory span recorder. It keeps a bounded history of
// finished spans for the local status API; an external uploader can drain
// the same Recorder interface instead when proof-of-play delivery is wired.
type Journal struct {
	mu       sync.Mutex
	capacity int
	spans    []Span
}

// NewJournal creates a journal retaining at most capacity finished spans.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 256
	}
	return &Journal{capacity: capacity}
}

func (j *Journal) Start(canvasID, itemID string) Span {
	return Span{
		ID:        uuid.New(),
		CanvasID:  canvasID,
		ItemID:    itemID,
		StartedAt: time.Now(),
	}
}

func (j *Journal) Finish(span Span) {
	if span.EndedAt.IsZero() {
		span.EndedAt = time.Now()
	}
	span.Duration = span.EndedAt.Sub(span.StartedAt)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.spans = append(j.spans, span)
	if len(j.spans) > j.capacity {
		j.spans = j.spans[len(j.spans)-j.capacity:]
	}
}

// Recent returns the retained spans, newest last.
func (j *Journal) Recent() []v1alpha1.PlaybackSpan {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]v1alpha1.PlaybackSpan, len(j.spans))
	for i, s := range j.spans {
		out[i] = v1alpha1.PlaybackSpan{
			ID:             s.ID.String(),
			CanvasID:       s.CanvasID,
			ItemID:         s.ItemID,
			StartedAt:      s.StartedAt,
			EndedAt:        s.EndedAt,
			DurationMillis: s.Duration.Milliseconds(),
		}
	}
	return out
}
