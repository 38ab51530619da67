package stays

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotelier/internal/app/commands"
	"hotelier/internal/app/handlers/support"
	"hotelier/internal/app/middleware"
	"hotelier/internal/app/outbox"
	"hotelier/internal/app/uow"
	domainbooking "hotelier/internal/domain/booking"
)

const checkInKey = "stays.check_in"

// CheckInCommand converts an active reservation into an active booking on
// the reservation's start date.
type CheckInCommand struct {
	CommandID       string
	HotelID         int64
	ReservationID   string
	IdempotencyKeyV string
}

func (c CheckInCommand) Key() string { return checkInKey }

func (c CheckInCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CheckInCommand) ResultPrototype() any { return &CheckInResult{} }

type CheckInResult struct {
	BookingID     string `json:"booking_id"`
	ReservationID string `json:"reservation_id"`
}

type CheckInHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CheckInHandler) Handle(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, ctx, err = support.BeginWriteUnit(ctx, h.UoWFactory)
		if err != nil {
			return nil, err
		}
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := time.Now().UTC()
	res, err := unit.Reservations().ByID(ctx, cmd.HotelID, cmd.ReservationID)
	if err != nil {
		return nil, err
	}
	if err := res.MarkCheckedIn(now); err != nil {
		return nil, err
	}

	bookingID := cmd.CommandID
	if bookingID == "" {
		bookingID = uuid.NewString()
	}
	bkg, err := domainbooking.FromReservation(bookingID, res, now)
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bkg); err != nil {
		return nil, err
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
		return nil, err
	}

	enc := defaultEncoder(h.Encoder)
	if err := outbox.RecordEvents(ctx, h.Outbox, enc, res.Drain()); err != nil {
		return nil, err
	}
	if err := outbox.RecordEvents(ctx, h.Outbox, enc, bkg.Drain()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CheckInResult{BookingID: bkg.ID, ReservationID: res.ID}, nil
}

var _ commands.Handler[CheckInCommand, *CheckInResult] = (*CheckInHandler)(nil)
var _ middleware.IdempotentCommand = CheckInCommand{}
