package slot

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open time range [start, end). Both bounds are stored
// as UTC instants so comparisons never depend on the caller's zone.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// Overlaps reports whether two half-open intervals share at least one
// instant. Abutting intervals (one ends where the other starts) do not
// overlap, so back-to-back sessions are always allowed.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

func (iv Interval) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(iv.start) && t.Before(iv.end)
}

// Less orders intervals by start, then end, for deterministic listings.
func (iv Interval) Less(other Interval) bool {
	if !iv.start.Equal(other.start) {
		return iv.start.Before(other.start)
	}
	return iv.end.Before(other.end)
}

func (iv Interval) Equal(other Interval) bool {
	return iv.start.Equal(other.start) && iv.end.Equal(other.end)
}

func (iv Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(time.RFC3339Nano), iv.end.Format(time.RFC3339Nano))
}

func (iv Interval) String() string {
	return iv.ToTstzrange()
}
