package reservation

import (
	"context"
	"errors"
	"time"

	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
	"hotelier/internal/domain/shared/payment"
)

var (
	ErrNotFound          = errors.New("reservation: not found")
	ErrAlreadyCheckedIn  = errors.New("reservation: already checked in")
	ErrAlreadyCheckedOut = errors.New("reservation: already checked out")
	ErrCheckInNotToday   = errors.New("reservation: check-in allowed only on the reservation start date")
	ErrGuestRequired     = errors.New("reservation: guest id required")
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Confirmation grades how firm the commitment is: GREEN when an advance
// payment was taken, GREY otherwise.
type Confirmation string

const (
	ConfirmationGreen Confirmation = "GREEN"
	ConfirmationGrey  Confirmation = "GREY"
)

// ConfirmationFor derives the grade from the advance payment amount.
func ConfirmationFor(advancePayment float64) Confirmation {
	if advancePayment > 0 {
		return ConfirmationGreen
	}
	return ConfirmationGrey
}

// Reservation is a confirmed future-dated intent to stay. Checking in turns
// it into a booking; checking that booking out closes the reservation too.
type Reservation struct {
	ID      string
	GuestID string
	pricing.Quote
	Status       Status
	Confirmation Confirmation
	CheckedIn    bool
	CheckedOut   bool
	Payment      payment.Details

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, hotelID int64, id string) (*Reservation, error)
	Save(ctx context.Context, res *Reservation) error
	ActiveFrom(ctx context.Context, hotelID int64, day time.Time) ([]*Reservation, error)
	ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*Reservation, error)
}

type CreateParams struct {
	ID        string
	GuestID   string
	Quote     pricing.Quote
	Payment   payment.Details
	CreatedAt time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	now := params.CreatedAt.UTC()
	r := &Reservation{
		ID:           params.ID,
		GuestID:      params.GuestID,
		Quote:        params.Quote.Copy(),
		Status:       StatusActive,
		Confirmation: ConfirmationFor(params.Payment.AdvancePayment),
		Payment:      params.Payment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.Record(Created(r.ID, r.HotelID, r.GuestID, r.Stay, r.Confirmation, now))
	return r, nil
}

// MarkCheckedIn enforces the same-calendar-day rule before flipping the flag.
func (r *Reservation) MarkCheckedIn(now time.Time) error {
	if r.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	if !daterange.SameDay(now, r.Stay.CheckIn) {
		return ErrCheckInNotToday
	}
	r.CheckedIn = true
	r.UpdatedAt = now.UTC()
	r.Record(CheckedIn(r.ID, r.HotelID, now))
	return nil
}

// MarkCheckedOut closes the reservation once its booking settles.
func (r *Reservation) MarkCheckedOut(now time.Time) error {
	if r.CheckedOut {
		return ErrAlreadyCheckedOut
	}
	r.CheckedOut = true
	r.Status = StatusClosed
	r.UpdatedAt = now.UTC()
	return nil
}
