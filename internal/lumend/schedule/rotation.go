package schedule

import "time"

// RotationConfig bounds slot durations and sleep intervals.
type RotationConfig struct {
	// Floor is the minimum slot and sleep duration; prevents thrashing on
	// clock jitter and past boundaries
	Floor time.Duration
	// DefaultSlot is the slot length for items without a usable intrinsic
	// duration, including playlists
	DefaultSlot time.Duration
	// MaxSlot caps the slot length against malformed intrinsic durations
	MaxSlot time.Duration
	// EmptyRecheck is how soon to re-check when the manifest has no items
	EmptyRecheck time.Duration
}

// Selection is the outcome of one rotation step.
type Selection struct {
	// Item is the item to show, nil when nothing is active
	Item *Item
	// Sleep is how long to display the item, or how long to wait before
	// re-evaluating when nothing is active
	Sleep time.Duration
}

// Rotator performs deterministic round-robin among tied top-priority items.
// The cursor is keyed by a signature of the tied group so that any change
// to the competing set resets rotation to the group's first member. A
// rotator belongs to exactly one canvas and is never shared.
type Rotator struct {
	cfg    RotationConfig
	key    string
	cursor int
}

// NewRotator creates a rotator with the given bounds.
func NewRotator(cfg RotationConfig) *Rotator {
	return &Rotator{cfg: cfg}
}

// Config returns the rotator's bounds.
func (r *Rotator) Config() RotationConfig {
	return r.cfg
}

// Reset clears rotation state. Called when a new manifest is applied.
func (r *Rotator) Reset() {
	r.key = ""
	r.cursor = 0
}

// Next builds a snapshot, picks the item to show, and advances the rotation
// cursor for the following call. Each call both selects and advances, so
// successive calls with a static tied group visit every member in order.
func (r *Rotator) Next(items []Item, now time.Time) Selection {
	snap := BuildSnapshot(items, now)

	if !snap.HasActive {
		r.Reset()
		if snap.NextBoundary.IsZero() {
			return Selection{Sleep: r.cfg.EmptyRecheck}
		}
		sleep := snap.NextBoundary.Sub(now)
		if sleep < r.cfg.Floor {
			sleep = r.cfg.Floor
		}
		return Selection{Sleep: sleep}
	}

	if snap.Key != r.key {
		r.key = snap.Key
		r.cursor = 0
	}
	chosen := snap.Group[r.cursor%len(snap.Group)]
	r.cursor = (r.cursor + 1) % len(snap.Group)

	// Slot length: the item's intrinsic duration, preempted by the next
	// moment anything could change, but never below the floor.
	slot := r.intrinsic(&chosen)
	if until := snap.NextBoundary.Sub(now); until < slot {
		slot = until
	}
	if slot < r.cfg.Floor {
		slot = r.cfg.Floor
	}

	return Selection{Item: &chosen, Sleep: slot}
}
