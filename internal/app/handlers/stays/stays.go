// Package stays holds the write path of the stay lifecycle: reservation and
// walk-in booking creation, check-in and check-out. Every handler runs its
// writes inside one unit of work; nothing survives a failed step.
package stays

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hotelier/internal/app/outbox"
	"hotelier/internal/app/uow"
	"hotelier/internal/domain/availability"
	"hotelier/internal/domain/guest"
	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/payment"
)

var (
	ErrUnitOfWorkRequired = errors.New("stays: unit of work required")
	ErrCheckInInFuture    = errors.New("stays: check-in date must not be after today")
)

// GuestInfo are the contact fields captured when the stay is created.
type GuestInfo struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNum    string
	IdentityNum string
}

type PaymentInfo struct {
	AdvancePayment     float64
	AdvancePaymentMode string
}

func validateStayDates(checkIn, checkOut, now time.Time) error {
	if !daterange.Day(checkIn).Before(daterange.Day(checkOut)) {
		return daterange.ErrInvalidRange
	}
	if daterange.Day(checkIn).After(daterange.Day(now)) {
		return ErrCheckInInFuture
	}
	return nil
}

func paymentDetails(p PaymentInfo) payment.Details {
	if p.AdvancePayment <= 0 {
		return payment.Details{}
	}
	return payment.Details{
		AdvancePayment:     p.AdvancePayment,
		AdvancePaymentMode: p.AdvancePaymentMode,
	}
}

func createGuest(ctx context.Context, unit uow.UnitOfWork, hotelID int64, info GuestInfo, now time.Time) (string, error) {
	g, err := guest.New(uuid.NewString(), hotelID, info.FirstName, info.LastName, info.Email, info.PhoneNum, info.IdentityNum, now)
	if err != nil {
		return "", err
	}
	if err := unit.Guests().Create(ctx, g); err != nil {
		return "", err
	}
	return g.ID, nil
}

func holdKindFor(conf reservation.Confirmation) availability.HoldKind {
	if conf == reservation.ConfirmationGreen {
		return availability.HoldGreen
	}
	return availability.HoldGrey
}

// placeHolds re-validates availability for every room inside the current
// transaction and appends the holds. The quote already checked the rooms,
// but a concurrent create may have slipped in between; re-checking here,
// under the transaction, is what prevents the double booking.
func placeHolds(ctx context.Context, unit uow.UnitOfWork, box outbox.Outbox, enc outbox.EventEncoder, q pricing.Quote, kind availability.HoldKind, linkID string, now time.Time) error {
	for _, roomID := range q.RoomIDs {
		record, err := unit.Availability().Record(ctx, q.HotelID, roomID)
		if err != nil {
			return err
		}
		hold, err := record.PlaceHold(q.Stay, kind, linkID, now)
		if err != nil {
			return err
		}
		if err := unit.Availability().AppendHold(ctx, q.HotelID, roomID, hold); err != nil {
			return err
		}
		if err := outbox.RecordEvents(ctx, box, enc, record.Drain()); err != nil {
			return err
		}
	}
	return nil
}

func defaultEncoder(enc outbox.EventEncoder) outbox.EventEncoder {
	if enc != nil {
		return enc
	}
	return outbox.JSONEventEncoder{IDGenerator: uuid.NewString}
}
