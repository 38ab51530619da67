package stays

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotelier/internal/app/commands"
	"hotelier/internal/app/handlers/support"
	"hotelier/internal/app/middleware"
	"hotelier/internal/app/outbox"
	"hotelier/internal/app/rateshop"
	"hotelier/internal/app/uow"
	domainbooking "hotelier/internal/domain/booking"
	domainreservation "hotelier/internal/domain/reservation"
)

const createBookingKey = "stays.create_booking"

// CreateBookingCommand books a walk-in stay: no prior reservation, the
// guest is standing at the desk.
type CreateBookingCommand struct {
	CommandID          string
	HotelID            int64
	RoomIDs            []int64
	CheckIn            time.Time
	CheckOut           time.Time
	NumOfPersons       int
	NumOfExtraMattress int
	CouponCode         string
	VoucherCode        string
	Guest              GuestInfo
	Payment            PaymentInfo
	IdempotencyKeyV    string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID    string  `json:"booking_id"`
	GuestID      string  `json:"guest_id"`
	TotalNumDays int     `json:"total_num_days"`
	TotalCharge  float64 `json:"total_charge"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Engine     *rateshop.Engine
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
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
	if err := validateStayDates(cmd.CheckIn, cmd.CheckOut, now); err != nil {
		return nil, err
	}

	quote, err := h.Engine.Quote(ctx, cmd.HotelID, rateshop.Request{
		RoomIDs:            cmd.RoomIDs,
		CheckIn:            cmd.CheckIn,
		CheckOut:           cmd.CheckOut,
		NumOfPersons:       cmd.NumOfPersons,
		NumOfExtraMattress: cmd.NumOfExtraMattress,
		CouponCode:         cmd.CouponCode,
		VoucherCode:        cmd.VoucherCode,
	})
	if err != nil {
		return nil, err
	}

	guestID, err := createGuest(ctx, unit, cmd.HotelID, cmd.Guest, now)
	if err != nil {
		return nil, err
	}

	bookingID := cmd.CommandID
	if bookingID == "" {
		bookingID = uuid.NewString()
	}
	bkg, err := domainbooking.New(domainbooking.CreateParams{
		ID:        bookingID,
		GuestID:   guestID,
		Quote:     quote,
		Payment:   paymentDetails(cmd.Payment),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bkg); err != nil {
		return nil, err
	}

	kind := holdKindFor(domainreservation.ConfirmationFor(cmd.Payment.AdvancePayment))
	if err := placeHolds(ctx, unit, h.Outbox, defaultEncoder(h.Encoder), quote, kind, bkg.ID, now); err != nil {
		return nil, err
	}
	if err := outbox.RecordEvents(ctx, h.Outbox, defaultEncoder(h.Encoder), bkg.Drain()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{
		BookingID:    bkg.ID,
		GuestID:      guestID,
		TotalNumDays: bkg.TotalNumDays,
		TotalCharge:  bkg.Charges.TotalDaysCharge,
	}, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
