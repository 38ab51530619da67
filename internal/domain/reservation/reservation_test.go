package reservation

import (
	"errors"
	"testing"
	"time"

	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/payment"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newReservation(t *testing.T, advance float64) *Reservation {
	t.Helper()
	stay, err := daterange.New(day(2024, 2, 1), day(2024, 2, 4))
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	res, err := New(CreateParams{
		ID:      "res-1",
		GuestID: "guest-1",
		Quote: pricing.Quote{
			HotelID: 1,
			RoomIDs: []int64{101},
			Stay:    stay,
		},
		Payment:   payment.Details{AdvancePayment: advance},
		CreatedAt: day(2024, 1, 20),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return res
}

func TestConfirmationFor(t *testing.T) {
	cases := []struct {
		advance float64
		want    Confirmation
	}{
		{500, ConfirmationGreen},
		{0.01, ConfirmationGreen},
		{0, ConfirmationGrey},
		{-10, ConfirmationGrey},
	}
	for _, tc := range cases {
		if got := ConfirmationFor(tc.advance); got != tc.want {
			t.Fatalf("ConfirmationFor(%v) = %s, want %s", tc.advance, got, tc.want)
		}
	}
}

func TestNewGradesConfirmationAndRecordsEvent(t *testing.T) {
	res := newReservation(t, 500)
	if res.Confirmation != ConfirmationGreen {
		t.Fatalf("confirmation = %s, want GREEN", res.Confirmation)
	}
	if res.Status != StatusActive {
		t.Fatalf("status = %s, want ACTIVE", res.Status)
	}
	evs := res.Drain()
	if len(evs) != 1 || evs[0].EventName() != "reservation.created" {
		t.Fatalf("expected created event, got %+v", evs)
	}

	grey := newReservation(t, 0)
	if grey.Confirmation != ConfirmationGrey {
		t.Fatalf("confirmation = %s, want GREY", grey.Confirmation)
	}
}

func TestMarkCheckedInOnlyOnStartDate(t *testing.T) {
	res := newReservation(t, 500)
	if err := res.MarkCheckedIn(day(2024, 1, 31)); !errors.Is(err, ErrCheckInNotToday) {
		t.Fatalf("early check-in: got %v, want ErrCheckInNotToday", err)
	}
	if err := res.MarkCheckedIn(day(2024, 2, 2)); !errors.Is(err, ErrCheckInNotToday) {
		t.Fatalf("late check-in: got %v, want ErrCheckInNotToday", err)
	}
	if err := res.MarkCheckedIn(time.Date(2024, 2, 1, 18, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("same-day check-in: %v", err)
	}
	if err := res.MarkCheckedIn(day(2024, 2, 1)); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("repeat check-in: got %v, want ErrAlreadyCheckedIn", err)
	}
}

func TestMarkCheckedOutCloses(t *testing.T) {
	res := newReservation(t, 0)
	if err := res.MarkCheckedOut(day(2024, 2, 4)); err != nil {
		t.Fatalf("MarkCheckedOut: %v", err)
	}
	if res.Status != StatusClosed || !res.CheckedOut {
		t.Fatalf("reservation not closed: %+v", res)
	}
	if err := res.MarkCheckedOut(day(2024, 2, 4)); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Fatalf("got %v, want ErrAlreadyCheckedOut", err)
	}
}
