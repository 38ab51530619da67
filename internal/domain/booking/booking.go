package booking

import (
	"context"
	"errors"
	"math"
	"time"

	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
	"hotelier/internal/domain/shared/payment"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrAlreadyClosed    = errors.New("booking: already closed")
	ErrGuestRequired    = errors.New("booking: guest id required")
	ErrCheckOutInFuture = errors.New("booking: checkout date must not be in the future")
)

const taxRatePercent = 10

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Booking is a stay currently occupying its rooms. ResID is a non-owning
// back-reference, set only when the booking came out of a check-in; walk-in
// bookings leave it empty.
type Booking struct {
	ID      string
	GuestID string
	ResID   string
	pricing.Quote
	Status  Status
	Payment payment.Details

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, hotelID int64, id string) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Replace(ctx context.Context, b *Booking) error
	ByCheckInDay(ctx context.Context, hotelID int64, day time.Time) ([]*Booking, error)
	ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*Booking, error)
}

type CreateParams struct {
	ID        string
	GuestID   string
	ResID     string
	Quote     pricing.Quote
	Payment   payment.Details
	CreatedAt time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		GuestID:   params.GuestID,
		ResID:     params.ResID,
		Quote:     params.Quote.Copy(),
		Status:    StatusActive,
		Payment:   params.Payment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(Created(b.ID, b.HotelID, b.GuestID, b.ResID, b.Stay, now))
	return b, nil
}

// FromReservation carries a checked-in reservation over into an active
// booking: same quote, same payment details, back-reference set.
func FromReservation(id string, res *reservation.Reservation, now time.Time) (*Booking, error) {
	return New(CreateParams{
		ID:        id,
		GuestID:   res.GuestID,
		ResID:     res.ID,
		Quote:     res.Quote,
		Payment:   res.Payment,
		CreatedAt: now,
	})
}

// Settle closes the booking on checkOutDate, recomputing the stay charges
// when the date moved and producing the final payment breakup. The refreshed
// discount figures are passed in; resolving the codes is the caller's I/O.
// Returns whether the checkout date changed so the caller can shift the
// availability holds accordingly.
func (b *Booking) Settle(checkOutDate time.Time, couponPct, voucherAmount float64, now time.Time) (bool, error) {
	if b.Status != StatusActive {
		return false, ErrAlreadyClosed
	}
	out := daterange.Day(checkOutDate)
	if out.After(daterange.Day(now)) {
		return false, ErrCheckOutInFuture
	}

	dateChanged := !out.Equal(b.Stay.CheckOut)
	if dateChanged {
		days := daterange.NightsBetween(b.Stay.CheckIn, out)
		if days == 0 {
			// Same-day checkout still bills one full day.
			days = 1
		}
		b.TotalNumDays = days
		b.Charges.TotalDaysCharge = float64(days) * b.Rates.PerDayCharge
		b.Charges.ExtraMattress = b.Rates.ExtraMattress * float64(b.NumOfExtraMattress) * float64(days)
		b.Stay.CheckOut = out
	}
	b.Charges.CouponDisPercentage = couponPct
	b.Charges.VoucherAmount = voucherAmount

	breakup := b.computeBreakup()
	b.Payment.Breakup = &breakup
	b.Status = StatusClosed
	b.UpdatedAt = now.UTC()
	b.Record(Closed(b.ID, b.HotelID, breakup.TotalPayable, now))
	return dateChanged, nil
}

func (b *Booking) computeBreakup() payment.Breakup {
	bk := payment.Breakup{
		TotalCharges:        b.Charges.TotalDaysCharge,
		ExtraMattressCharge: b.Charges.ExtraMattress,
		AdvancePayment:      b.Payment.AdvancePayment,
		PaymentMode:         b.Payment.AdvancePaymentMode,
	}
	if b.Charges.CouponDisPercentage > 0 {
		bk.CouponDiscount = (bk.TotalCharges + bk.ExtraMattressCharge) * b.Charges.CouponDisPercentage / 100
	}
	bk.VoucherAmountUsed = b.Charges.VoucherAmount
	// The advance payment is itself taxable, so tax is computed before it is
	// deducted from the payable amount.
	bk.TaxAmount = math.Abs((bk.TotalCharges + bk.ExtraMattressCharge - bk.CouponDiscount - bk.VoucherAmountUsed) * taxRatePercent / 100)
	bk.TotalPayable = bk.TotalCharges + bk.ExtraMattressCharge + bk.TaxAmount -
		bk.CouponDiscount - bk.VoucherAmountUsed - bk.AdvancePayment
	return bk
}
