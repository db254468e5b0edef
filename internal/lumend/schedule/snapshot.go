package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Snapshot is the global scheduling picture at one instant: the earliest
// re-evaluation deadline across all items, and the tied group of active
// items at the top priority. Snapshots are ephemeral and recomputed every
// tick.
type Snapshot struct {
	// NextBoundary is the minimum next-change instant over all items,
	// active or not; zero when the item list is empty
	NextBoundary time.Time
	// HasActive reports whether any item is active
	HasActive bool
	// TopPriority is the highest priority among active items
	TopPriority int
	// Group lists the active items at TopPriority, ordered by
	// (case-insensitive display name, original index)
	Group []Item
	// Key is a stable signature of (TopPriority, group identities); a key
	// change means the competing set changed, not merely rotated
	Key string
}

// BuildSnapshot evaluates every item at now and aggregates the result. The
// group ordering is stable across repeated calls with unchanged input so
// that rotation offsets stay meaningful.
func BuildSnapshot(items []Item, now time.Time) Snapshot {
	var snap Snapshot

	for i := range items {
		ev := Evaluate(&items[i], now)
		if snap.NextBoundary.IsZero() || ev.NextChange.Before(snap.NextBoundary) {
			snap.NextBoundary = ev.NextChange
		}
		if !ev.Active {
			continue
		}
		switch {
		case !snap.HasActive:
			snap.HasActive = true
			snap.TopPriority = items[i].Priority
			snap.Group = append(snap.Group[:0], items[i])
		case items[i].Priority > snap.TopPriority:
			snap.TopPriority = items[i].Priority
			snap.Group = append(snap.Group[:0], items[i])
		case items[i].Priority == snap.TopPriority:
			snap.Group = append(snap.Group, items[i])
		}
	}

	sort.SliceStable(snap.Group, func(a, b int) bool {
		na := strings.ToLower(snap.Group[a].DisplayName())
		nb := strings.ToLower(snap.Group[b].DisplayName())
		if na != nb {
			return na < nb
		}
		return snap.Group[a].Index < snap.Group[b].Index
	})

	if snap.HasActive {
		ids := make([]string, len(snap.Group))
		for i := range snap.Group {
			ids[i] = snap.Group[i].Identity()
		}
		snap.Key = fmt.Sprintf("%d|%s", snap.TopPriority, strings.Join(ids, ","))
	}

	return snap
}
