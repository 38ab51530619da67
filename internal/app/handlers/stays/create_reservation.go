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
	domainreservation "hotelier/internal/domain/reservation"
)

const createReservationKey = "stays.create_reservation"

type CreateReservationCommand struct {
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

func (c CreateReservationCommand) Key() string { return createReservationKey }

func (c CreateReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateReservationCommand) ResultPrototype() any { return &CreateReservationResult{} }

type CreateReservationResult struct {
	ReservationID string                         `json:"reservation_id"`
	GuestID       string                         `json:"guest_id"`
	Confirmation  domainreservation.Confirmation `json:"confirmation"`
	TotalNumDays  int                            `json:"total_num_days"`
	TotalCharge   float64                        `json:"total_charge"`
}

type CreateReservationHandler struct {
	UoWFactory uow.UoWFactory
	Engine     *rateshop.Engine
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*CreateReservationResult, error) {
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

	resID := cmd.CommandID
	if resID == "" {
		resID = uuid.NewString()
	}
	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:        resID,
		GuestID:   guestID,
		Quote:     quote,
		Payment:   paymentDetails(cmd.Payment),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
		return nil, err
	}

	if err := placeHolds(ctx, unit, h.Outbox, defaultEncoder(h.Encoder), quote, holdKindFor(res.Confirmation), res.ID, now); err != nil {
		return nil, err
	}
	if err := outbox.RecordEvents(ctx, h.Outbox, defaultEncoder(h.Encoder), res.Drain()); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateReservationResult{
		ReservationID: res.ID,
		GuestID:       guestID,
		Confirmation:  res.Confirmation,
		TotalNumDays:  res.TotalNumDays,
		TotalCharge:   res.Charges.TotalDaysCharge,
	}, nil
}

var _ commands.Handler[CreateReservationCommand, *CreateReservationResult] = (*CreateReservationHandler)(nil)
var _ middleware.IdempotentCommand = CreateReservationCommand{}
