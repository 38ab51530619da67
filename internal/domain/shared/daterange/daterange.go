package daterange

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

// Day drops the time-of-day component, keeping the calendar date at UTC midnight.
// All stay boundaries are stored and compared this way.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether both instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// NightsBetween counts whole days between two calendar dates.
func NightsBetween(from, to time.Time) int {
	diff := Day(to).Sub(Day(from))
	return int(math.Round(math.Abs(diff.Hours() / 24)))
}

// StayRange is a half-open stay interval [CheckIn, CheckOut) of calendar dates.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New normalizes both boundaries to calendar dates and validates the interval.
func New(checkIn, checkOut time.Time) (StayRange, error) {
	r := StayRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if err := r.Validate(); err != nil {
		return StayRange{}, err
	}
	return r, nil
}

func (r StayRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the billed length of the stay in whole days.
func (r StayRange) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

// Overlaps reports interval intersection under half-open semantics:
// an existing [f, t) blocks [CheckIn, CheckOut) iff t > CheckIn && f < CheckOut.
func (r StayRange) Overlaps(other StayRange) bool {
	return other.CheckOut.After(r.CheckIn) && other.CheckIn.Before(r.CheckOut)
}
