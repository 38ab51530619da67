package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"already midnight", date(2024, 2, 1), date(2024, 2, 1)},
		{"afternoon", time.Date(2024, 2, 1, 15, 4, 5, 0, time.UTC), date(2024, 2, 1)},
		{"zoned instant", time.Date(2024, 2, 2, 3, 0, 0, 0, loc), date(2024, 2, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Day(tc.in); !got.Equal(tc.want) {
				t.Fatalf("Day(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNightsBetween(t *testing.T) {
	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"three nights", date(2024, 2, 1), date(2024, 2, 4), 3},
		{"same day", date(2024, 2, 1), date(2024, 2, 1), 0},
		{"reversed counts absolute", date(2024, 2, 4), date(2024, 2, 1), 3},
		{"across dst boundary", date(2024, 3, 30), date(2024, 4, 1), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NightsBetween(tc.from, tc.to); got != tc.want {
				t.Fatalf("NightsBetween = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNewValidatesAndNormalizes(t *testing.T) {
	stay, err := New(time.Date(2024, 2, 1, 14, 0, 0, 0, time.UTC), time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !stay.CheckIn.Equal(date(2024, 2, 1)) || !stay.CheckOut.Equal(date(2024, 2, 5)) {
		t.Fatalf("boundaries not normalized: %+v", stay)
	}
	if stay.Nights() != 4 {
		t.Fatalf("Nights = %d, want 4", stay.Nights())
	}

	if _, err := New(date(2024, 2, 5), date(2024, 2, 5)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("equal boundaries: got %v, want ErrInvalidRange", err)
	}
	if _, err := New(date(2024, 2, 5), date(2024, 2, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("reversed boundaries: got %v, want ErrInvalidRange", err)
	}
}

func TestOverlaps(t *testing.T) {
	base := StayRange{CheckIn: date(2024, 2, 1), CheckOut: date(2024, 2, 5)}
	cases := []struct {
		name  string
		other StayRange
		want  bool
	}{
		{"partial overlap", StayRange{CheckIn: date(2024, 2, 3), CheckOut: date(2024, 2, 6)}, true},
		{"contained", StayRange{CheckIn: date(2024, 2, 2), CheckOut: date(2024, 2, 3)}, true},
		{"containing", StayRange{CheckIn: date(2024, 1, 30), CheckOut: date(2024, 2, 10)}, true},
		{"identical", base, true},
		{"back to back after", StayRange{CheckIn: date(2024, 2, 5), CheckOut: date(2024, 2, 8)}, false},
		{"back to back before", StayRange{CheckIn: date(2024, 1, 28), CheckOut: date(2024, 2, 1)}, false},
		{"disjoint", StayRange{CheckIn: date(2024, 3, 1), CheckOut: date(2024, 3, 5)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps(%+v) = %v, want %v", tc.other, got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("overlap must be symmetric for %+v", tc.other)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	if !SameDay(time.Date(2024, 2, 1, 23, 59, 0, 0, time.UTC), date(2024, 2, 1)) {
		t.Fatal("instants on the same date must match")
	}
	if SameDay(date(2024, 2, 1), date(2024, 2, 2)) {
		t.Fatal("different dates must not match")
	}
}
