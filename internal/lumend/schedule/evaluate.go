package schedule

import "time"

// Evaluation is the result of checking one item at one instant.
type Evaluation struct {
	// Active reports whether the item is currently eligible to show
	Active bool
	// NextChange is the earliest instant at which Active could flip; the
	// caller can sleep until then without missing a transition
	NextChange time.Time
}

// Evaluate computes whether the item is active at now and when its state
// could next change. It is a pure function of the item and the instant: no
// hidden state, safe to call every tick.
//
// The time-of-day window is half-open: an item with toTime 17:00:00.000 is
// active at 16:59:59.999 and inactive at exactly 17:00:00.000. Unparseable
// date bounds are treated as bounds that are never satisfied, so the item
// stays inactive rather than showing content outside its intended window.
func Evaluate(item *Item, now time.Time) Evaluation {
	local := now.In(item.Location)

	dayStart := startOfDay(local)
	if item.From != nil {
		dayStart = item.From.At(local)
	}
	var dayEnd time.Time
	if item.To != nil {
		dayEnd = item.To.At(local)
	} else {
		dayEnd = startOfDay(local).AddDate(0, 0, 1)
	}

	withinDates := !item.InceptInvalid && !item.ExpireInvalid &&
		(item.InceptAt == nil || !local.Before(*item.InceptAt)) &&
		(item.ExpireAt == nil || !local.After(*item.ExpireAt))
	allowedDay := item.allowedOn(local.Weekday())
	withinWindow := !local.Before(dayStart) && local.Before(dayEnd)

	active := item.Media.Kind() != "" && withinDates && allowedDay && withinWindow

	// Next change, in priority order: a future incept bound, today's window
	// start, the window end while active, else tomorrow's window start. The
	// tomorrow fallback does not scan ahead for the next allowed weekday; it
	// under-wakes and simply re-evaluates, which is always safe.
	var next time.Time
	switch {
	case !item.InceptInvalid && item.InceptAt != nil && local.Before(*item.InceptAt):
		next = *item.InceptAt
	case local.Before(dayStart):
		next = dayStart
	case active:
		next = dayEnd
	default:
		if item.From != nil {
			next = item.From.At(startOfDay(local).AddDate(0, 0, 1))
		} else {
			next = startOfDay(local).AddDate(0, 0, 1)
		}
	}

	// An earlier expire bound preempts the computed instant, but only while
	// it is still ahead of us; a long-expired item must not produce wake-ups
	// in the past.
	if !item.ExpireInvalid && item.ExpireAt != nil {
		limit := item.ExpireAt.Add(time.Millisecond)
		if limit.After(local) && limit.Before(next) {
			next = limit
		}
	}

	return Evaluation{Active: active, NextChange: next}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
