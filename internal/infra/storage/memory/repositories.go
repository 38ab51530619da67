package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainavailability "hotelier/internal/domain/availability"
	domainbooking "hotelier/internal/domain/booking"
	domainguest "hotelier/internal/domain/guest"
	domainreservation "hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/domain/shared/events"
)

// GuestRepository is an in-memory implementation for demo and test purposes.
type GuestRepository struct {
	mu    sync.RWMutex
	items map[string]*domainguest.Guest
}

func NewGuestRepository() *GuestRepository {
	return &GuestRepository{items: make(map[string]*domainguest.Guest)}
}

func (r *GuestRepository) Create(ctx context.Context, g *domainguest.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *g
	r.items[g.ID] = &clone
	return nil
}

func (r *GuestRepository) ByID(ctx context.Context, id string) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.items[id]
	if !ok {
		return nil, domainguest.ErrNotFound
	}
	clone := *g
	return &clone, nil
}

// ReservationRepository stores reservations in memory.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[string]*domainreservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[string]*domainreservation.Reservation)}
}

func (r *ReservationRepository) ByID(ctx context.Context, hotelID int64, id string) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok || res.HotelID != hotelID {
		return nil, domainreservation.ErrNotFound
	}
	return cloneReservation(res), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Version++
	r.items[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepository) ActiveFrom(ctx context.Context, hotelID int64, day time.Time) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	from := daterange.Day(day)
	var out []*domainreservation.Reservation
	for _, res := range r.items {
		if res.HotelID != hotelID || res.Status != domainreservation.StatusActive {
			continue
		}
		if res.Stay.CheckIn.Before(from) {
			continue
		}
		out = append(out, cloneReservation(res))
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lo, hi := daterange.Day(from), daterange.Day(to)
	var out []*domainreservation.Reservation
	for _, res := range r.items {
		if res.HotelID != hotelID {
			continue
		}
		if res.Stay.CheckIn.Before(lo) || res.Stay.CheckIn.After(hi) {
			continue
		}
		out = append(out, cloneReservation(res))
	}
	sortReservations(out)
	return out, nil
}

func (r *ReservationRepository) currentVersion(id string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if res, ok := r.items[id]; ok {
		return res.Version
	}
	return 0
}

func sortReservations(list []*domainreservation.Reservation) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].Stay.CheckIn.Before(list[j].Stay.CheckIn)
	})
}

func cloneReservation(res *domainreservation.Reservation) *domainreservation.Reservation {
	clone := *res
	clone.Quote = res.Quote.Copy()
	clone.Recorder = events.Recorder{}
	return &clone
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[string]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[string]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, hotelID int64, id string) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok || b.HotelID != hotelID {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) Replace(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return domainbooking.ErrNotFound
	}
	b.Version++
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) ByCheckInDay(ctx context.Context, hotelID int64, day time.Time) ([]*domainbooking.Booking, error) {
	start := daterange.Day(day)
	return r.ByCheckInRange(ctx, hotelID, start, start)
}

func (r *BookingRepository) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lo, hi := daterange.Day(from), daterange.Day(to)
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.HotelID != hotelID {
			continue
		}
		day := daterange.Day(b.Stay.CheckIn)
		if day.Before(lo) || day.After(hi) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stay.CheckIn.Before(out[j].Stay.CheckIn)
	})
	return out, nil
}

func (r *BookingRepository) currentVersion(id string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.items[id]; ok {
		return b.Version
	}
	return 0
}

func (r *BookingRepository) contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	clone := *b
	clone.Quote = b.Quote.Copy()
	clone.Recorder = events.Recorder{}
	if b.Payment.Breakup != nil {
		breakup := *b.Payment.Breakup
		clone.Payment.Breakup = &breakup
	}
	return &clone
}

// AvailabilityRepository keeps per-room ledgers in memory. Record hands out a
// snapshot so callers mutate their own copy and persist through AppendHold,
// matching the database-backed implementation.
type AvailabilityRepository struct {
	mu      sync.RWMutex
	ledgers map[ledgerKey]*domainavailability.RoomAvailability
}

type ledgerKey struct {
	hotelID int64
	roomID  int64
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{ledgers: make(map[ledgerKey]*domainavailability.RoomAvailability)}
}

func (r *AvailabilityRepository) Record(ctx context.Context, hotelID, roomID int64) (*domainavailability.RoomAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ledgerKey{hotelID: hotelID, roomID: roomID}
	rec, ok := r.ledgers[key]
	if !ok {
		rec = domainavailability.NewRecord(hotelID, roomID, time.Now().UTC())
		r.ledgers[key] = rec
	}
	return cloneLedger(rec), nil
}

func (r *AvailabilityRepository) AppendHold(ctx context.Context, hotelID, roomID int64, hold domainavailability.Hold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ledgerKey{hotelID: hotelID, roomID: roomID}
	rec, ok := r.ledgers[key]
	if !ok {
		rec = domainavailability.NewRecord(hotelID, roomID, time.Now().UTC())
		r.ledgers[key] = rec
	}
	rec.Holds = append(rec.Holds, hold)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AvailabilityRepository) ShiftHoldEnd(ctx context.Context, hotelID, roomID int64, linkID string, newTo time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.ledgers[ledgerKey{hotelID: hotelID, roomID: roomID}]
	if !ok {
		return domainavailability.ErrHoldNotFound
	}
	return rec.ShiftHoldEnd(linkID, newTo, time.Now())
}

// peek reads a ledger without the upsert Record performs.
func (r *AvailabilityRepository) peek(hotelID, roomID int64) (*domainavailability.RoomAvailability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.ledgers[ledgerKey{hotelID: hotelID, roomID: roomID}]
	if !ok {
		return nil, false
	}
	return cloneLedger(rec), true
}

func cloneLedger(rec *domainavailability.RoomAvailability) *domainavailability.RoomAvailability {
	clone := *rec
	clone.Holds = append([]domainavailability.Hold(nil), rec.Holds...)
	clone.Recorder = events.Recorder{}
	return &clone
}

var (
	_ domainguest.Repository        = (*GuestRepository)(nil)
	_ domainreservation.Repository  = (*ReservationRepository)(nil)
	_ domainbooking.Repository      = (*BookingRepository)(nil)
	_ domainavailability.Repository = (*AvailabilityRepository)(nil)
)
