// Package v1alpha1 contains API types for the Lumen Signage player.
package v1alpha1

import "encoding/json"

// ScheduleItem is the canonical wire representation of one scheduled entry
// in a content manifest. All temporal fields are carried as strings so that
// malformed values survive decoding and can be handled deliberately instead
// of failing the whole manifest.
type ScheduleItem struct {
	// ID uniquely identifies the item for display tracking
	ID string `json:"id,omitempty"`
	// Name is a human-readable identifier, also used for rotation ordering
	Name string `json:"name,omitempty"`
	// CanvasID binds the item to one named display region; empty means the
	// default canvas
	CanvasID string `json:"canvasId,omitempty"`
	// Priority determines which items win when several are active (higher wins)
	Priority int `json:"priority,omitempty"`
	// TimeZone is the IANA zone name used to interpret all temporal fields
	TimeZone string `json:"timeZone,omitempty"`
	// InceptAt is when the item becomes valid (inclusive); empty means unbounded
	InceptAt string `json:"inceptAt,omitempty"`
	// ExpireAt is when the item stops being valid (inclusive); empty means unbounded
	ExpireAt string `json:"expireAt,omitempty"`
	// FromTime restricts activation to after this time of day (hh:mm:ss.mmm)
	FromTime string `json:"fromTime,omitempty"`
	// ToTime restricts activation to before this time of day (hh:mm:ss.mmm)
	ToTime string `json:"toTime,omitempty"`
	// Days lists weekday codes (Mon..Sun) on which the item may be active.
	// When present and non-empty it is the sole day filter.
	Days []string `json:"days,omitempty"`
	// WorkingDays restricts activation to Mon-Fri when Days is absent
	WorkingDays bool `json:"workingDays,omitempty"`
	// Weekend restricts activation to Sat-Sun when Days is absent
	Weekend bool `json:"weekend,omitempty"`
	// Media is the content document to render
	Media *Media `json:"media,omitempty"`
}

// ItemEnvelope wraps a schedule item one level under a data field. Some
// manifest producers emit this nested shape instead of flat items.
type ItemEnvelope struct {
	Data *ScheduleItem `json:"data,omitempty"`
}

// ListEnvelopeKeys are the field names recognized as one-level list wrappers
// around an item array.
var ListEnvelopeKeys = []string{"results", "data", "items"}

// LegacyManifest is the event-based manifest dialect produced by older
// schedulers. It is converted into canonical ScheduleItems by an explicit
// adapter before evaluation; nothing downstream of the normalizer ever sees
// this shape.
type LegacyManifest struct {
	// Events lists the scheduled events
	Events []LegacyEvent `json:"events"`
	// Layouts maps layout references to content documents shared by events
	Layouts map[string]*Media `json:"layouts,omitempty"`
}

// LegacyEvent is one entry in a legacy event manifest.
type LegacyEvent struct {
	// EventID identifies the event
	EventID string `json:"eventId,omitempty"`
	// Title is the human-readable event name
	Title string `json:"title,omitempty"`
	// LayoutRef names an entry in the manifest's layout table
	LayoutRef string `json:"layoutRef,omitempty"`
	// Media is an inline content document, taking precedence over LayoutRef
	Media *Media `json:"media,omitempty"`
	// StartDate is when the event becomes valid
	StartDate string `json:"startDate,omitempty"`
	// EndDate is when the event stops being valid
	EndDate string `json:"endDate,omitempty"`
	// DailyStart restricts the event to after this time of day
	DailyStart string `json:"dailyStart,omitempty"`
	// DailyEnd restricts the event to before this time of day
	DailyEnd string `json:"dailyEnd,omitempty"`
	// Recurrence restricts which days the event repeats on
	Recurrence *LegacyRecurrence `json:"recurrence,omitempty"`
	// Priority determines precedence among overlapping events
	Priority int `json:"priority,omitempty"`
	// Screen binds the event to a named display region
	Screen string `json:"screen,omitempty"`
	// TimeZone is the IANA zone for the event's temporal fields
	TimeZone string `json:"timeZone,omitempty"`
}

// LegacyRecurrence restricts which days a legacy event repeats on.
type LegacyRecurrence struct {
	// Freq is the recurrence frequency ("daily" or "weekly")
	Freq string `json:"freq,omitempty"`
	// ByDay lists iCalendar-style day codes (MO..SU) for weekly recurrence
	ByDay []string `json:"byDay,omitempty"`
}

// IsLegacyManifest reports whether raw looks like a legacy event manifest:
// a top-level object whose events field holds an array.
func IsLegacyManifest(raw json.RawMessage) bool {
	var probe struct {
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	if len(probe.Events) == 0 {
		return false
	}
	var events []json.RawMessage
	return json.Unmarshal(probe.Events, &events) == nil
}
