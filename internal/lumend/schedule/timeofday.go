package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time within a day at millisecond resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	Milli  int
}

// ParseTimeOfDay parses hh:mm, hh:mm:ss, or hh:mm:ss.mmm.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var td TimeOfDay
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return td, ErrInvalidTimeOfDay{Value: s}
	}

	var err error
	if td.Hour, err = strconv.Atoi(parts[0]); err != nil {
		return td, ErrInvalidTimeOfDay{Value: s}
	}
	if td.Minute, err = strconv.Atoi(parts[1]); err != nil {
		return td, ErrInvalidTimeOfDay{Value: s}
	}
	if len(parts) == 3 {
		sec := parts[2]
		if dot := strings.IndexByte(sec, '.'); dot >= 0 {
			frac := sec[dot+1:]
			sec = sec[:dot]
			// Normalize the fraction to milliseconds
			if len(frac) > 3 {
				frac = frac[:3]
			}
			for len(frac) < 3 {
				frac += "0"
			}
			if td.Milli, err = strconv.Atoi(frac); err != nil {
				return td, ErrInvalidTimeOfDay{Value: s}
			}
		}
		if td.Second, err = strconv.Atoi(sec); err != nil {
			return td, ErrInvalidTimeOfDay{Value: s}
		}
	}

	if td.Hour < 0 || td.Hour > 23 || td.Minute < 0 || td.Minute > 59 ||
		td.Second < 0 || td.Second > 59 || td.Milli < 0 {
		return td, ErrInvalidTimeOfDay{Value: s}
	}
	return td, nil
}

// At anchors the time of day on the calendar day of ref, in ref's location.
func (td TimeOfDay) At(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(),
		td.Hour, td.Minute, td.Second, td.Milli*int(time.Millisecond), ref.Location())
}

// String formats the time of day as hh:mm:ss.mmm.
func (td TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", td.Hour, td.Minute, td.Second, td.Milli)
}
