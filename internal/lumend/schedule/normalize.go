package schedule

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// Normalizer converts wire manifests of any recognized shape into the
// canonical item sequence. It holds only decode-time configuration, never
// per-manifest state.
type Normalizer struct {
	defaultLoc *time.Location
	logger     *slog.Logger
}

// NewNormalizer creates a normalizer that interprets zoneless items in the
// given fallback location.
func NewNormalizer(defaultLoc *time.Location, logger *slog.Logger) *Normalizer {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Normalizer{defaultLoc: defaultLoc, logger: logger}
}

// Normalize decodes a canonical-dialect manifest into an ordered item
// sequence. It unwraps one level of list envelopes (results/data/items
// holding an array), accepts bare arrays, single items, and {data: item}
// wrappers, and silently drops elements matching none of those shapes;
// on an unattended display no item beats a wrong item. Legacy event
// manifests must be routed through ConvertLegacy by the caller instead.
func (n *Normalizer) Normalize(raw json.RawMessage) []Item {
	elements := splitElements(raw)

	items := make([]Item, 0, len(elements))
	for i, el := range elements {
		wire, ok := decodeElement(el)
		if !ok {
			n.logger.Debug("dropping unrecognized manifest element", "index", i)
			continue
		}
		items = append(items, n.convert(wire, len(items)))
	}
	return items
}

// splitElements unwraps the manifest's outer shape into individual raw
// elements, preserving order.
func splitElements(raw json.RawMessage) []json.RawMessage {
	// A bare array of elements
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	// An object: either a one-level list envelope or a single item
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	for _, key := range v1alpha1.ListEnvelopeKeys {
		field, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(field, &list); err == nil {
			return list
		}
	}
	return []json.RawMessage{raw}
}

// decodeElement accepts a flat item (media field carried directly) or a
// nested {data: item} wrapper.
func decodeElement(el json.RawMessage) (*v1alpha1.ScheduleItem, bool) {
	var flat v1alpha1.ScheduleItem
	if err := json.Unmarshal(el, &flat); err == nil && flat.Media != nil {
		return &flat, true
	}
	var nested v1alpha1.ItemEnvelope
	if err := json.Unmarshal(el, &nested); err == nil && nested.Data != nil && nested.Data.Media != nil {
		return nested.Data, true
	}
	return nil, false
}

// convert builds a canonical item from its wire form, resolving the zone and
// parsing all temporal fields. Malformed values degrade per field: a bad
// zone falls back to the default, a bad time-of-day opens that side of the
// window, and a bad date bound marks the item never satisfiable.
func (n *Normalizer) convert(wire *v1alpha1.ScheduleItem, index int) Item {
	loc := n.defaultLoc
	if wire.TimeZone != "" {
		parsed, err := time.LoadLocation(wire.TimeZone)
		if err != nil {
			n.logger.Warn("unknown time zone, using default",
				"zone", wire.TimeZone,
				"item", wire.ID,
			)
		} else {
			loc = parsed
		}
	}

	item := Item{
		ID:          wire.ID,
		Name:        wire.Name,
		CanvasID:    wire.CanvasID,
		Priority:    wire.Priority,
		Index:       index,
		Location:    loc,
		WorkingDays: wire.WorkingDays,
		Weekend:     wire.Weekend,
		Media:       wire.Media,
	}

	item.InceptAt, item.InceptInvalid = n.parseInstant(wire.InceptAt, loc, wire.ID, "inceptAt")
	item.ExpireAt, item.ExpireInvalid = n.parseInstant(wire.ExpireAt, loc, wire.ID, "expireAt")
	item.From = n.parseBoundary(wire.FromTime, wire.ID, "fromTime")
	item.To = n.parseBoundary(wire.ToTime, wire.ID, "toTime")
	item.Days = n.parseDays(wire.Days, wire.ID)

	return item
}

// instantFormats are the accepted absolute timestamp layouts, tried in
// order. Zoneless layouts are interpreted in the item's location.
var instantFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (n *Normalizer) parseInstant(s string, loc *time.Location, itemID, field string) (*time.Time, bool) {
	if s == "" {
		return nil, false
	}
	for _, layout := range instantFormats {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, false
		}
	}
	n.logger.Warn("unparseable date bound, treating as never satisfied",
		"field", field,
		"value", s,
		"item", itemID,
	)
	return nil, true
}

func (n *Normalizer) parseBoundary(s, itemID, field string) *TimeOfDay {
	if s == "" {
		return nil
	}
	td, err := ParseTimeOfDay(s)
	if err != nil {
		n.logger.Warn("unparseable time of day, using full-day window",
			"field", field,
			"value", s,
			"item", itemID,
		)
		return nil
	}
	return &td
}

// weekdayCodes maps manifest day codes to weekdays.
var weekdayCodes = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

func (n *Normalizer) parseDays(codes []string, itemID string) []time.Weekday {
	if len(codes) == 0 {
		return nil
	}
	days := make([]time.Weekday, 0, len(codes))
	for _, code := range codes {
		day, ok := weekdayCodes[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			n.logger.Warn("unknown weekday code", "code", code, "item", itemID)
			continue
		}
		days = append(days, day)
	}
	return days
}
