package scheduling

import (
	"cmp"
	"fmt"
)

const (
	// StartOfDay is the first minute of a day.
	StartOfDay = 0
	// EndOfDay is the exclusive end of a day, in minutes.
	EndOfDay = 24 * 60
)

// WholeDay spans the entire day.
var WholeDay = TimeRange{start: StartOfDay, end: EndOfDay}

// TimeRange is a half-open interval [start, end) measured in minutes from
// the start of a day.
type TimeRange struct {
	start int
	end   int
}

// NewTimeRange returns the range [start, end).
func NewTimeRange(start, end int) (TimeRange, error) {
	if start < StartOfDay || end > EndOfDay {
		return TimeRange{}, fmt.Errorf("%w: range [%d,%d) is outside the day", ErrInvalidArgument, start, end)
	}
	if start > end {
		return TimeRange{}, fmt.Errorf("%w: range start %d is after end %d", ErrInvalidArgument, start, end)
	}
	return TimeRange{start: start, end: end}, nil
}

// FromStartDuration returns the range that begins at start and lasts duration minutes.
func FromStartDuration(start, duration int) (TimeRange, error) {
	if duration < 0 {
		return TimeRange{}, fmt.Errorf("%w: negative duration %d", ErrInvalidArgument, duration)
	}
	return NewTimeRange(start, start+duration)
}

func (r TimeRange) Start() int    { return r.start }
func (r TimeRange) End() int      { return r.end }
func (r TimeRange) Duration() int { return r.end - r.start }

// ContainsPoint reports whether minute lies in [start, end).
func (r TimeRange) ContainsPoint(minute int) bool {
	return r.start <= minute && minute < r.end
}

// Contains reports whether every point of other lies in r.
func (r TimeRange) Contains(other TimeRange) bool {
	return r.start <= other.start && other.end <= r.end
}

// Overlaps reports whether r and other share at least one minute. A
// zero-length range overlaps any range that contains it.
func (r TimeRange) Overlaps(other TimeRange) bool {
	if r.Duration() == 0 || other.Duration() == 0 {
		return r.Contains(other) || other.Contains(r)
	}
	return r.start < other.end && other.start < r.end
}

// Compare orders ranges by start, then by duration.
func (r TimeRange) Compare(other TimeRange) int {
	if c := cmp.Compare(r.start, other.start); c != 0 {
		return c
	}
	return cmp.Compare(r.Duration(), other.Duration())
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", clock(r.start), clock(r.end))
}

func clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
