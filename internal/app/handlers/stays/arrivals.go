package stays

import (
	"context"
	"time"

	"hotelier/internal/app/handlers/support"
	"hotelier/internal/app/queries"
	"hotelier/internal/app/uow"
	domainbooking "hotelier/internal/domain/booking"
	domainreservation "hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
)

const (
	activeReservationsKey  = "stays.active_reservations"
	reservationsByRangeKey = "stays.reservations_by_range"
	arrivalsKey            = "stays.arrivals"
)

// ActiveReservationsQuery lists the reservations of a hotel whose check-in
// is today or later.
type ActiveReservationsQuery struct {
	HotelID int64
}

func (q ActiveReservationsQuery) Key() string { return activeReservationsKey }

type ActiveReservationsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ActiveReservationsHandler) Handle(ctx context.Context, query ActiveReservationsQuery) ([]*domainreservation.Reservation, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Reservations().ActiveFrom(execCtx, query.HotelID, daterange.Day(time.Now()))
}

// ReservationsByRangeQuery lists reservations with a check-in inside
// [From, To] (calendar dates, inclusive, matching the original API).
type ReservationsByRangeQuery struct {
	HotelID int64
	From    time.Time
	To      time.Time
}

func (q ReservationsByRangeQuery) Key() string { return reservationsByRangeKey }

type ReservationsByRangeHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ReservationsByRangeHandler) Handle(ctx context.Context, query ReservationsByRangeQuery) ([]*domainreservation.Reservation, error) {
	if !daterange.Day(query.From).Before(daterange.Day(query.To)) {
		return nil, daterange.ErrInvalidRange
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Reservations().ByCheckInRange(execCtx, query.HotelID, daterange.Day(query.From), daterange.Day(query.To))
}

// ArrivalsQuery lists the bookings checking in on the given day (today when
// zero), the front desk's arrival board.
type ArrivalsQuery struct {
	HotelID int64
	Day     time.Time
}

func (q ArrivalsQuery) Key() string { return arrivalsKey }

type ArrivalsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ArrivalsHandler) Handle(ctx context.Context, query ArrivalsQuery) ([]*domainbooking.Booking, error) {
	day := query.Day
	if day.IsZero() {
		day = time.Now()
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Bookings().ByCheckInDay(execCtx, query.HotelID, daterange.Day(day))
}

var _ queries.Handler[ActiveReservationsQuery, []*domainreservation.Reservation] = (*ActiveReservationsHandler)(nil)
var _ queries.Handler[ReservationsByRangeQuery, []*domainreservation.Reservation] = (*ReservationsByRangeHandler)(nil)
var _ queries.Handler[ArrivalsQuery, []*domainbooking.Booking] = (*ArrivalsHandler)(nil)
