package booking

import (
	"errors"
	"math"
	"testing"
	"time"

	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/payment"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quoteFor(t *testing.T, checkIn, checkOut time.Time, perDay, mattressRate float64, mattresses int) pricing.Quote {
	t.Helper()
	stay, err := daterange.New(checkIn, checkOut)
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	q := pricing.Quote{
		HotelID:            1,
		RoomIDs:            []int64{101},
		Stay:               stay,
		NumOfPersons:       2,
		NumOfExtraMattress: mattresses,
		Rates:              pricing.Rates{PerDayCharge: perDay, ExtraMattress: mattressRate},
	}
	if err := q.Price(); err != nil {
		t.Fatalf("price: %v", err)
	}
	return q
}

func newBooking(t *testing.T, q pricing.Quote, advance float64) *Booking {
	t.Helper()
	b, err := New(CreateParams{
		ID:        "bkg-1",
		GuestID:   "guest-1",
		Quote:     q,
		Payment:   payment.Details{AdvancePayment: advance, AdvancePaymentMode: "CARD"},
		CreatedAt: day(2024, 2, 1),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b.Drain()
	return b
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewRequiresGuest(t *testing.T) {
	_, err := New(CreateParams{ID: "bkg-1", Quote: quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0)})
	if !errors.Is(err, ErrGuestRequired) {
		t.Fatalf("got %v, want ErrGuestRequired", err)
	}
}

func TestSettleOnBookedDate(t *testing.T) {
	b := newBooking(t, quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0), 500)

	dateChanged, err := b.Settle(day(2024, 2, 4), 0, 0, day(2024, 2, 4))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if dateChanged {
		t.Fatal("checkout on the booked date must not report a date change")
	}
	bk := b.Payment.Breakup
	if bk == nil {
		t.Fatal("breakup missing")
	}
	if !approx(bk.TotalCharges, 3000) {
		t.Fatalf("TotalCharges = %v, want 3000", bk.TotalCharges)
	}
	if !approx(bk.TaxAmount, 300) {
		t.Fatalf("TaxAmount = %v, want 300", bk.TaxAmount)
	}
	if !approx(bk.TotalPayable, 2800) {
		t.Fatalf("TotalPayable = %v, want 3300 - 500 advance", bk.TotalPayable)
	}
	if b.Status != StatusClosed {
		t.Fatalf("status = %s, want CLOSED", b.Status)
	}
	evs := b.Drain()
	if len(evs) != 1 || evs[0].EventName() != "booking.closed" {
		t.Fatalf("expected closed event, got %+v", evs)
	}
}

func TestSettleSameDayBillsOneDay(t *testing.T) {
	b := newBooking(t, quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 150, 2), 0)

	dateChanged, err := b.Settle(day(2024, 2, 1), 10, 100, day(2024, 2, 1))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !dateChanged {
		t.Fatal("leaving early must report a date change")
	}
	if b.TotalNumDays != 1 {
		t.Fatalf("TotalNumDays = %d, want 1", b.TotalNumDays)
	}
	if !b.Stay.CheckOut.Equal(day(2024, 2, 1)) {
		t.Fatalf("stay end = %v", b.Stay.CheckOut)
	}
	bk := b.Payment.Breakup
	if !approx(bk.TotalCharges, 1000) {
		t.Fatalf("TotalCharges = %v, want 1000", bk.TotalCharges)
	}
	// Mattress charge is recomputed per day at settlement: 150 x 2 x 1.
	if !approx(bk.ExtraMattressCharge, 300) {
		t.Fatalf("ExtraMattressCharge = %v, want 300", bk.ExtraMattressCharge)
	}
	if !approx(bk.CouponDiscount, 130) {
		t.Fatalf("CouponDiscount = %v, want 130", bk.CouponDiscount)
	}
	if !approx(bk.VoucherAmountUsed, 100) {
		t.Fatalf("VoucherAmountUsed = %v, want 100", bk.VoucherAmountUsed)
	}
	if !approx(bk.TaxAmount, 107) {
		t.Fatalf("TaxAmount = %v, want 107", bk.TaxAmount)
	}
	if !approx(bk.TotalPayable, 1177) {
		t.Fatalf("TotalPayable = %v, want 1177", bk.TotalPayable)
	}
}

func TestSettleExtendedStayReprices(t *testing.T) {
	b := newBooking(t, quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0), 0)

	dateChanged, err := b.Settle(day(2024, 2, 6), 0, 0, day(2024, 2, 6))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !dateChanged {
		t.Fatal("overstay must report a date change")
	}
	if b.TotalNumDays != 5 {
		t.Fatalf("TotalNumDays = %d, want 5", b.TotalNumDays)
	}
	if !approx(b.Payment.Breakup.TotalCharges, 5000) {
		t.Fatalf("TotalCharges = %v, want 5000", b.Payment.Breakup.TotalCharges)
	}
}

func TestSettleRejectsFutureDate(t *testing.T) {
	b := newBooking(t, quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0), 0)
	if _, err := b.Settle(day(2024, 2, 3), 0, 0, day(2024, 2, 2)); !errors.Is(err, ErrCheckOutInFuture) {
		t.Fatalf("got %v, want ErrCheckOutInFuture", err)
	}
}

func TestSettleRejectsClosedBooking(t *testing.T) {
	b := newBooking(t, quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0), 0)
	if _, err := b.Settle(day(2024, 2, 4), 0, 0, day(2024, 2, 4)); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if _, err := b.Settle(day(2024, 2, 4), 0, 0, day(2024, 2, 4)); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("got %v, want ErrAlreadyClosed", err)
	}
}

func TestFromReservationCarriesQuoteAndPayment(t *testing.T) {
	res, err := reservation.New(reservation.CreateParams{
		ID:        "res-1",
		GuestID:   "guest-1",
		Quote:     quoteFor(t, day(2024, 2, 1), day(2024, 2, 4), 1000, 0, 0),
		Payment:   payment.Details{AdvancePayment: 500, AdvancePaymentMode: "UPI"},
		CreatedAt: day(2024, 1, 20),
	})
	if err != nil {
		t.Fatalf("reservation: %v", err)
	}

	b, err := FromReservation("bkg-1", res, day(2024, 2, 1))
	if err != nil {
		t.Fatalf("FromReservation: %v", err)
	}
	if b.ResID != "res-1" || b.GuestID != "guest-1" {
		t.Fatalf("links not carried: %+v", b)
	}
	if b.Payment.AdvancePayment != 500 {
		t.Fatalf("advance = %v, want 500", b.Payment.AdvancePayment)
	}
	if b.Charges.TotalDaysCharge != res.Charges.TotalDaysCharge {
		t.Fatal("quote charges not carried over")
	}
}
