// Package schedule implements the scheduling and rotation engine
package schedule

import "fmt"

// ErrInvalidTimeOfDay indicates an unparseable time-of-day string
type ErrInvalidTimeOfDay struct {
	Value string
}

func (e ErrInvalidTimeOfDay) Error() string {
	return fmt.Sprintf("invalid time of day %q: expected hh:mm[:ss[.mmm]]", e.Value)
}

// ErrUnknownZone indicates a time zone name that could not be loaded
type ErrUnknownZone struct {
	Name string
}

func (e ErrUnknownZone) Error() string {
	return fmt.Sprintf("unknown time zone %q", e.Name)
}
