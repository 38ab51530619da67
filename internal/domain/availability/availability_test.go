package availability

import (
	"errors"
	"testing"
	"time"

	"hotelier/internal/domain/shared/daterange"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(from, to time.Time) daterange.StayRange {
	return daterange.StayRange{CheckIn: from, CheckOut: to}
}

func TestIsFree(t *testing.T) {
	now := day(2024, 1, 15)
	rec := NewRecord(1, 101, now)
	if _, err := rec.PlaceHold(stay(day(2024, 2, 1), day(2024, 2, 5)), HoldGreen, "res-1", now); err != nil {
		t.Fatalf("PlaceHold: %v", err)
	}

	cases := []struct {
		name string
		s    daterange.StayRange
		free bool
	}{
		{"overlapping", stay(day(2024, 2, 3), day(2024, 2, 6)), false},
		{"identical", stay(day(2024, 2, 1), day(2024, 2, 5)), false},
		{"starts on checkout day", stay(day(2024, 2, 5), day(2024, 2, 8)), true},
		{"ends on checkin day", stay(day(2024, 1, 28), day(2024, 2, 1)), true},
		{"disjoint", stay(day(2024, 3, 1), day(2024, 3, 4)), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rec.IsFree(tc.s); got != tc.free {
				t.Fatalf("IsFree(%+v) = %v, want %v", tc.s, got, tc.free)
			}
		})
	}
}

func TestPlaceHoldRejectsOverlap(t *testing.T) {
	now := day(2024, 1, 15)
	rec := NewRecord(1, 101, now)
	if _, err := rec.PlaceHold(stay(day(2024, 2, 1), day(2024, 2, 5)), HoldGrey, "res-1", now); err != nil {
		t.Fatalf("first hold: %v", err)
	}
	rec.Drain()

	_, err := rec.PlaceHold(stay(day(2024, 2, 3), day(2024, 2, 6)), HoldGreen, "res-2", now)
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("got %v, want ErrRoomUnavailable", err)
	}
	if len(rec.Holds) != 1 {
		t.Fatalf("rejected hold must not be appended, holds=%d", len(rec.Holds))
	}
	evs := rec.Drain()
	if len(evs) != 1 {
		t.Fatalf("expected one rejection event, got %d", len(evs))
	}
	if evs[0].EventName() != "availability.hold_rejected" {
		t.Fatalf("event = %s", evs[0].EventName())
	}
}

func TestPlaceHoldRecordsPlacement(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	rec := NewRecord(1, 101, now)
	hold, err := rec.PlaceHold(stay(day(2024, 2, 1), day(2024, 2, 5)), HoldGreen, "res-1", now)
	if err != nil {
		t.Fatalf("PlaceHold: %v", err)
	}
	if hold.Kind != HoldGreen || hold.LinkID != "res-1" {
		t.Fatalf("unexpected hold %+v", hold)
	}
	if !hold.From.Equal(day(2024, 2, 1)) || !hold.To.Equal(day(2024, 2, 5)) {
		t.Fatalf("hold boundaries %+v", hold)
	}
	evs := rec.Drain()
	if len(evs) != 1 || evs[0].EventName() != "availability.hold_placed" {
		t.Fatalf("expected placement event, got %+v", evs)
	}
	if evs[0].AggregateID() != "1/101" {
		t.Fatalf("aggregate id = %s", evs[0].AggregateID())
	}
}

func TestShiftHoldEnd(t *testing.T) {
	now := day(2024, 1, 15)
	rec := NewRecord(1, 101, now)
	if _, err := rec.PlaceHold(stay(day(2024, 2, 1), day(2024, 2, 5)), HoldGreen, "bkg-1", now); err != nil {
		t.Fatalf("PlaceHold: %v", err)
	}

	if err := rec.ShiftHoldEnd("bkg-1", time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC), now); err != nil {
		t.Fatalf("ShiftHoldEnd: %v", err)
	}
	if !rec.Holds[0].To.Equal(day(2024, 2, 3)) {
		t.Fatalf("hold end = %v, want 2024-02-03", rec.Holds[0].To)
	}

	if err := rec.ShiftHoldEnd("unknown", day(2024, 2, 4), now); !errors.Is(err, ErrHoldNotFound) {
		t.Fatalf("got %v, want ErrHoldNotFound", err)
	}
}
