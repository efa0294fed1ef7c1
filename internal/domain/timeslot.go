package domain

import (
	"fmt"
	"time"
)

const (
	// MinSlotDuration is the shortest bookable interval.
	MinSlotDuration = 15 * time.Minute
	// MaxSlotDuration is the longest bookable interval.
	MaxSlotDuration = 24 * time.Hour
)

// TimeSlot is an immutable half-open interval [Start, End). A slot ending
// exactly when another begins does not overlap it.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// NewTimeSlot validates and constructs a time slot.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, fmt.Errorf("start %s must be before end %s: %w",
			start.Format(time.RFC3339), end.Format(time.RFC3339), ErrInvalidSlot)
	}
	d := end.Sub(start)
	if d < MinSlotDuration {
		return TimeSlot{}, fmt.Errorf("duration %s is shorter than %s: %w", d, MinSlotDuration, ErrInvalidSlot)
	}
	if d > MaxSlotDuration {
		return TimeSlot{}, fmt.Errorf("duration %s exceeds %s: %w", d, MaxSlotDuration, ErrInvalidSlot)
	}
	return TimeSlot{start: start, end: end}, nil
}

// Start returns the inclusive lower bound.
func (s TimeSlot) Start() time.Time { return s.start }

// End returns the exclusive upper bound.
func (s TimeSlot) End() time.Time { return s.end }

// Duration returns the slot length.
func (s TimeSlot) Duration() time.Duration { return s.end.Sub(s.start) }

// Overlaps reports whether the two intervals share at least one instant.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.start.Before(other.end) && s.end.After(other.start)
}

// Contains reports whether point falls inside [start, end).
func (s TimeSlot) Contains(point time.Time) bool {
	return !point.Before(s.start) && point.Before(s.end)
}

// Equal compares slots by their bounds.
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.start.Equal(other.start) && s.end.Equal(other.end)
}

// IsZero reports whether the slot is the uninitialized value.
func (s TimeSlot) IsZero() bool { return s.start.IsZero() && s.end.IsZero() }

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s - %s", s.start.Format("2006-01-02 15:04"), s.end.Format("15:04"))
}
