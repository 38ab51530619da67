package stays_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelier/internal/app/handlers/stays"
	"hotelier/internal/app/queries"
	"hotelier/internal/app/rateshop"
	"hotelier/internal/domain/booking"
	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/infra/storage/memory"
)

func seedReservation(t *testing.T, repo *memory.ReservationRepository, id string, checkIn time.Time, closed bool) {
	t.Helper()
	stay, err := daterange.New(checkIn, checkIn.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	res, err := reservation.New(reservation.CreateParams{
		ID:        id,
		GuestID:   "guest-" + id,
		Quote:     pricing.Quote{HotelID: hotelID, RoomIDs: []int64{101}, Stay: stay},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("reservation: %v", err)
	}
	if closed {
		if err := res.MarkCheckedOut(time.Now().UTC()); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	if err := repo.Save(context.Background(), res); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func seedBooking(t *testing.T, repo *memory.BookingRepository, id string, checkIn time.Time) {
	t.Helper()
	stay, err := daterange.New(checkIn, checkIn.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	bkg, err := booking.New(booking.CreateParams{
		ID:        id,
		GuestID:   "guest-" + id,
		Quote:     pricing.Quote{HotelID: hotelID, RoomIDs: []int64{101}, Stay: stay},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	if err := repo.Save(context.Background(), bkg); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func queryFixture(t *testing.T) (*memory.ReservationRepository, *memory.BookingRepository, *queries.InMemoryBus) {
	t.Helper()
	reservations := memory.NewReservationRepository()
	bookings := memory.NewBookingRepository()
	factory := memory.Factory{
		GuestRepo:        memory.NewGuestRepository(),
		ReservationRepo:  reservations,
		BookingRepo:      bookings,
		AvailabilityRepo: memory.NewAvailabilityRepository(),
	}

	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, stays.ActiveReservationsQuery{}.Key(), &stays.ActiveReservationsHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, stays.ReservationsByRangeQuery{}.Key(), &stays.ReservationsByRangeHandler{UoWFactory: factory})
	queries.RegisterHandler(bus, stays.ArrivalsQuery{}.Key(), &stays.ArrivalsHandler{UoWFactory: factory})
	return reservations, bookings, bus
}

func TestActiveReservationsFromToday(t *testing.T) {
	reservations, _, bus := queryFixture(t)
	seedReservation(t, reservations, "past", today().AddDate(0, 0, -5), false)
	seedReservation(t, reservations, "today", today(), false)
	seedReservation(t, reservations, "upcoming", today().AddDate(0, 0, 3), false)
	seedReservation(t, reservations, "closed", today().AddDate(0, 0, 4), true)

	out, err := queries.Ask[stays.ActiveReservationsQuery, []*reservation.Reservation](
		context.Background(), bus, stays.ActiveReservationsQuery{HotelID: hotelID})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("%d reservations, want 2", len(out))
	}
	if out[0].ID != "today" || out[1].ID != "upcoming" {
		t.Fatalf("unexpected order: %s, %s", out[0].ID, out[1].ID)
	}
}

func TestReservationsByRange(t *testing.T) {
	reservations, _, bus := queryFixture(t)
	seedReservation(t, reservations, "before", today().AddDate(0, 0, -3), false)
	seedReservation(t, reservations, "inside", today().AddDate(0, 0, 1), false)
	seedReservation(t, reservations, "edge", today().AddDate(0, 0, 4), false)
	seedReservation(t, reservations, "after", today().AddDate(0, 0, 7), false)

	out, err := queries.Ask[stays.ReservationsByRangeQuery, []*reservation.Reservation](
		context.Background(), bus, stays.ReservationsByRangeQuery{
			HotelID: hotelID,
			From:    today(),
			To:      today().AddDate(0, 0, 4),
		})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("%d reservations, want 2 (inclusive range)", len(out))
	}

	_, err = queries.Ask[stays.ReservationsByRangeQuery, []*reservation.Reservation](
		context.Background(), bus, stays.ReservationsByRangeQuery{
			HotelID: hotelID,
			From:    today().AddDate(0, 0, 4),
			To:      today(),
		})
	if !errors.Is(err, daterange.ErrInvalidRange) {
		t.Fatalf("reversed range: got %v, want ErrInvalidRange", err)
	}
}

func TestArrivalsDefaultsToToday(t *testing.T) {
	_, bookings, bus := queryFixture(t)
	seedBooking(t, bookings, "arriving", today())
	seedBooking(t, bookings, "tomorrow", today().AddDate(0, 0, 1))

	out, err := queries.Ask[stays.ArrivalsQuery, []*booking.Booking](
		context.Background(), bus, stays.ArrivalsQuery{HotelID: hotelID})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(out) != 1 || out[0].ID != "arriving" {
		t.Fatalf("unexpected arrivals %+v", out)
	}
}

func TestRateShopQueryHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	engine := &rateshop.Engine{Rooms: f.catalog, Rates: f.catalog, Discounts: f.catalog, Availability: f.availability}
	bus := queries.NewInMemoryBus()
	queries.RegisterHandler(bus, stays.RateShopQuery{}.Key(), &stays.RateShopHandler{Engine: engine})

	query := stays.RateShopQuery{
		HotelID:      hotelID,
		RoomIDs:      []int64{101},
		CheckIn:      today(),
		CheckOut:     today().AddDate(0, 0, 3),
		NumOfPersons: 2,
		CouponCode:   "WELCOME10",
	}
	quote, err := queries.Ask[stays.RateShopQuery, *pricing.Quote](context.Background(), bus, query)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if quote.TotalNumDays != 3 || quote.Charges.TotalDaysCharge != 3000 {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if quote.Charges.CouponDisPercentage != 10 {
		t.Fatalf("coupon pct = %v, want 10", quote.Charges.CouponDisPercentage)
	}
	if holds := f.holds(t, 101); len(holds) != 0 {
		t.Fatalf("rate shopping must not place holds, got %d", len(holds))
	}
}
