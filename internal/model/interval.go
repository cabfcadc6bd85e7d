package model

import (
	"errors"

	"github.com/google/uuid"
)

// Interval is a weekly recurring half-open range [Start, End) on one day.
type Interval struct {
	Day   int // 0 = Sunday, 6 = Saturday
	Start Clock
	End   Clock
}

var (
	ErrInvalidDay    = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidClock  = errors.New("time must be within 00:00 and 23:59")
	ErrEmptyInterval = errors.New("end time must be after start time")
)

// Validate checks the day and that the interval has a positive duration.
func (i Interval) Validate() error {
	if i.Day < 0 || i.Day > 6 {
		return ErrInvalidDay
	}
	if !i.Start.Valid() || !i.End.Valid() {
		return ErrInvalidClock
	}
	if i.End <= i.Start {
		return ErrEmptyInterval
	}
	return nil
}

// Duration returns the length of the interval in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// Overlaps reports whether a and b share at least one minute on the same day.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Day == b.Day && a.Start < b.End && b.Start < a.End
}

// FindConflict returns the first slot in existing that overlaps candidate,
// skipping the slot whose ID equals excludeID when it is set.
func FindConflict(candidate Interval, existing []*ClassSlot, excludeID *uuid.UUID) *ClassSlot {
	for _, slot := range existing {
		if excludeID != nil && slot.ID == *excludeID {
			continue
		}
		if Overlaps(candidate, slot.Interval()) {
			return slot
		}
	}
	return nil
}
