package domain

import "time"

// TimeInterval is a half-open time span [Start, End). It is a value type and
// never mutated after construction.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeInterval returns a TimeInterval covering [start, end).
// Returns ErrInvalidInterval unless start is strictly before end.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals share any instant.
// Intervals that merely touch at a boundary do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// DurationMinutes returns the interval length in whole minutes, truncated
// toward zero on sub-minute remainders.
func (i TimeInterval) DurationMinutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// Valid reports whether the interval satisfies the Start < End invariant.
func (i TimeInterval) Valid() bool {
	return i.Start.Before(i.End)
}
