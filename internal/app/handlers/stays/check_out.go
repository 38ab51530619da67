package stays

import (
	"context"
	"errors"
	"time"

	"hotelier/internal/app/commands"
	"hotelier/internal/app/handlers/support"
	"hotelier/internal/app/middleware"
	"hotelier/internal/app/outbox"
	"hotelier/internal/app/rateshop"
	"hotelier/internal/app/uow"
	"hotelier/internal/domain/catalog"
	domainreservation "hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/payment"
)

const checkOutKey = "stays.check_out"

// CheckOutCommand settles an active booking: recomputes charges when the
// checkout date moved, refreshes discounts from the codes stored on the
// booking and closes the stay.
type CheckOutCommand struct {
	HotelID         int64
	BookingID       string
	CheckOutDate    time.Time
	Remarks         string
	IdempotencyKeyV string
}

func (c CheckOutCommand) Key() string { return checkOutKey }

func (c CheckOutCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CheckOutCommand) ResultPrototype() any { return &CheckOutResult{} }

type CheckOutResult struct {
	BookingID string          `json:"booking_id"`
	Breakup   payment.Breakup `json:"breakup"`
}

type CheckOutHandler struct {
	UoWFactory uow.UoWFactory
	Discounts  catalog.DiscountSource
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CheckOutHandler) Handle(ctx context.Context, cmd CheckOutCommand) (*CheckOutResult, error) {
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
	bkg, err := unit.Bookings().ByID(ctx, cmd.HotelID, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	// The reservation back-reference is non-owning; a missing record just
	// means the booking was a walk-in or the link went stale.
	var res *domainreservation.Reservation
	if bkg.ResID != "" {
		res, err = unit.Reservations().ByID(ctx, cmd.HotelID, bkg.ResID)
		if err != nil && !errors.Is(err, domainreservation.ErrNotFound) {
			return nil, err
		}
		if res != nil && res.CheckedOut {
			return nil, domainreservation.ErrAlreadyCheckedOut
		}
	}

	couponPct, err := rateshop.ResolveCoupon(ctx, h.Discounts, cmd.HotelID, bkg.CouponCode)
	if err != nil {
		return nil, err
	}
	voucherAmt, err := rateshop.ResolveVoucher(ctx, h.Discounts, cmd.HotelID, bkg.VoucherCode)
	if err != nil {
		return nil, err
	}

	dateChanged, err := bkg.Settle(cmd.CheckOutDate, couponPct, voucherAmt, now)
	if err != nil {
		return nil, err
	}
	bkg.Payment.Breakup.Remarks = cmd.Remarks
	if dateChanged {
		// Holds are linked to whichever record placed them: the reservation
		// for checked-in stays, the booking itself for walk-ins.
		holdLink := bkg.ID
		if bkg.ResID != "" {
			holdLink = bkg.ResID
		}
		for _, roomID := range bkg.RoomIDs {
			if err := unit.Availability().ShiftHoldEnd(ctx, cmd.HotelID, roomID, holdLink, bkg.Stay.CheckOut); err != nil {
				return nil, err
			}
		}
	}

	if err := unit.Bookings().Replace(ctx, bkg); err != nil {
		return nil, err
	}
	if res != nil {
		if err := res.MarkCheckedOut(now); err != nil {
			return nil, err
		}
		if err := unit.Reservations().Save(ctx, res); err != nil {
			return nil, err
		}
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

	return &CheckOutResult{BookingID: bkg.ID, Breakup: *bkg.Payment.Breakup}, nil
}

var _ commands.Handler[CheckOutCommand, *CheckOutResult] = (*CheckOutHandler)(nil)
var _ middleware.IdempotentCommand = CheckOutCommand{}
