package schedule

import (
	"strings"
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// legacyDayCodes maps iCalendar-style byDay codes from the legacy event
// dialect to weekdays.
var legacyDayCodes = map[string]time.Weekday{
	"mo": time.Monday,
	"tu": time.Tuesday,
	"we": time.Wednesday,
	"th": time.Thursday,
	"fr": time.Friday,
	"sa": time.Saturday,
	"su": time.Sunday,
}

// ConvertLegacy adapts a legacy event manifest into the canonical item
// sequence. This is a compatibility shim: events become ordinary items and
// flow through the same evaluator as canonical manifests, there is no
// second evaluation path. Events with no resolvable content document are
// dropped.
func (n *Normalizer) ConvertLegacy(doc *v1alpha1.LegacyManifest) []Item {
	items := make([]Item, 0, len(doc.Events))
	for _, ev := range doc.Events {
		media := ev.Media
		if media == nil && ev.LayoutRef != "" {
			media = doc.Layouts[ev.LayoutRef]
		}
		if media == nil {
			n.logger.Debug("dropping legacy event without content",
				"event", ev.EventID,
				"layoutRef", ev.LayoutRef,
			)
			continue
		}

		wire := &v1alpha1.ScheduleItem{
			ID:       ev.EventID,
			Name:     ev.Title,
			CanvasID: ev.Screen,
			Priority: ev.Priority,
			TimeZone: ev.TimeZone,
			InceptAt: ev.StartDate,
			ExpireAt: ev.EndDate,
			FromTime: ev.DailyStart,
			ToTime:   ev.DailyEnd,
			Media:    media,
		}
		item := n.convert(wire, len(items))
		item.Days = n.convertLegacyRecurrence(ev.Recurrence, ev.EventID)
		items = append(items, item)
	}
	return items
}

func (n *Normalizer) convertLegacyRecurrence(rec *v1alpha1.LegacyRecurrence, eventID string) []time.Weekday {
	if rec == nil || len(rec.ByDay) == 0 {
		return nil
	}
	days := make([]time.Weekday, 0, len(rec.ByDay))
	for _, code := range rec.ByDay {
		day, ok := legacyDayCodes[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			n.logger.Warn("unknown legacy byDay code", "code", code, "event", eventID)
			continue
		}
		days = append(days, day)
	}
	return days
}
