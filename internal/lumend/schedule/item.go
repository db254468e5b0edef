// Package schedule implements the scheduling and rotation engine: it
// normalizes manifests into canonical items, evaluates which items are
// active at any instant, and rotates among tied top-priority items.
package schedule

import (
	"fmt"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// Item is the canonical schedule entry the evaluator consumes. Items are
// recreated wholesale on every manifest change; only rotation position and
// the currently-displayed identity persist across updates.
type Item struct {
	// ID is the stable identifier, may be empty
	ID string
	// Name is the display name, used for rotation ordering
	Name string
	// CanvasID binds the item to one canvas; empty means the default canvas
	CanvasID string
	// Priority determines precedence among active items (higher wins)
	Priority int
	// Index is the item's position in the original manifest
	Index int
	// Location interprets all temporal fields, never nil
	Location *time.Location
	// InceptAt bounds overall validity from below (inclusive)
	InceptAt *time.Time
	// ExpireAt bounds overall validity from above (inclusive)
	ExpireAt *time.Time
	// InceptInvalid marks an unparseable incept bound: treated as a bound
	// that is never satisfied
	InceptInvalid bool
	// ExpireInvalid marks an unparseable expire bound, same treatment
	ExpireInvalid bool
	// From restricts activation to after this time of day; nil means 00:00
	From *TimeOfDay
	// To restricts activation to before this time of day (exclusive); nil
	// means end of day
	To *TimeOfDay
	// Days is the explicit weekday filter; when non-empty it is the sole
	// day filter and the flags below are ignored
	Days []time.Weekday
	// WorkingDays restricts activation to Mon-Fri when Days is empty
	WorkingDays bool
	// Weekend restricts activation to Sat-Sun when Days is empty
	Weekend bool
	// Media is the content document; items without a recognized document
	// are never active
	Media *v1alpha1.Media
}

// Identity returns the stable identity used to detect "same item already
// showing": the id if present, else the name, else the positional index.
func (it *Item) Identity() string {
	switch {
	case it.ID != "":
		return it.ID
	case it.Name != "":
		return it.Name
	default:
		return fmt.Sprintf("#%d", it.Index)
	}
}

// DisplayName returns the name used for deterministic rotation ordering.
func (it *Item) DisplayName() string {
	if it.Name != "" {
		return it.Name
	}
	return it.Identity()
}

// allowedOn reports whether the item's day filter permits the given weekday.
// An explicit day list overrides the workingDays/weekend flags; both flags
// set, or neither, means every day.
func (it *Item) allowedOn(day time.Weekday) bool {
	if len(it.Days) > 0 {
		for _, d := range it.Days {
			if d == day {
				return true
			}
		}
		return false
	}
	switch {
	case it.WorkingDays && it.Weekend:
		return true
	case it.WorkingDays:
		return day >= time.Monday && day <= time.Friday
	case it.Weekend:
		return day == time.Saturday || day == time.Sunday
	default:
		return true
	}
}
