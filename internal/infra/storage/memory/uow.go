package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"hotelier/internal/app/uow"
	domainavailability "hotelier/internal/domain/availability"
	domainbooking "hotelier/internal/domain/booking"
	domainguest "hotelier/internal/domain/guest"
	domainreservation "hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	GuestRepo        *GuestRepository
	ReservationRepo  *ReservationRepository
	BookingRepo      *BookingRepository
	AvailabilityRepo *AvailabilityRepository
}

var (
	// ErrFactoryMisconfigured indicates missing repositories.
	ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")
	// ErrUnitFinished means Commit was called on an already finished unit.
	ErrUnitFinished = errors.New("memory: unit of work already finished")
	// ErrConcurrentUpdate is returned from Commit when another unit changed
	// a record or ledger this unit read.
	ErrConcurrentUpdate = errors.New("memory: conflicting concurrent update")
)

// Begin starts a buffered transaction boundary: reads go through to the
// shared stores, writes stay in the unit until Commit applies them.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.GuestRepo == nil || f.ReservationRepo == nil || f.BookingRepo == nil || f.AvailabilityRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		base:   f,
		guests: &stagedGuests{base: f.GuestRepo, pending: map[string]*domainguest.Guest{}},
		reservations: &stagedReservations{
			base:    f.ReservationRepo,
			pending: map[string]*domainreservation.Reservation{},
			floors:  map[string]int64{},
		},
		bookings: &stagedBookings{
			base:    f.BookingRepo,
			pending: map[string]*domainbooking.Booking{},
			floors:  map[string]int64{},
		},
		availability: &stagedAvailability{
			base:    f.AvailabilityRepo,
			pending: map[ledgerKey]*domainavailability.RoomAvailability{},
			floors:  map[ledgerKey][]domainavailability.Hold{},
		},
	}, nil
}

// Unit buffers every write until Commit. Commit takes all store locks in a
// fixed order, re-validates the state this unit based its writes on and then
// applies the whole buffer or nothing, so a failed orchestration never
// leaves partial guests, records or holds behind.
type Unit struct {
	base         Factory
	guests       *stagedGuests
	reservations *stagedReservations
	bookings     *stagedBookings
	availability *stagedAvailability
	done         bool
}

func (u *Unit) Guests() domainguest.Repository { return u.guests }

func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Availability() domainavailability.Repository { return u.availability }

func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return ErrUnitFinished
	}
	u.done = true

	// Fixed lock order so concurrent commits serialize instead of deadlocking.
	u.base.GuestRepo.mu.Lock()
	defer u.base.GuestRepo.mu.Unlock()
	u.base.ReservationRepo.mu.Lock()
	defer u.base.ReservationRepo.mu.Unlock()
	u.base.BookingRepo.mu.Lock()
	defer u.base.BookingRepo.mu.Unlock()
	u.base.AvailabilityRepo.mu.Lock()
	defer u.base.AvailabilityRepo.mu.Unlock()

	for id := range u.reservations.pending {
		var cur int64
		if existing, ok := u.base.ReservationRepo.items[id]; ok {
			cur = existing.Version
		}
		if cur != u.reservations.floors[id] {
			return ErrConcurrentUpdate
		}
	}
	for id := range u.bookings.pending {
		var cur int64
		if existing, ok := u.base.BookingRepo.items[id]; ok {
			cur = existing.Version
		}
		if cur != u.bookings.floors[id] {
			return ErrConcurrentUpdate
		}
	}
	for key := range u.availability.pending {
		var cur []domainavailability.Hold
		if existing, ok := u.base.AvailabilityRepo.ledgers[key]; ok {
			cur = existing.Holds
		}
		if !holdsEqual(cur, u.availability.floors[key]) {
			return ErrConcurrentUpdate
		}
	}

	for id, g := range u.guests.pending {
		u.base.GuestRepo.items[id] = g
	}
	for id, res := range u.reservations.pending {
		u.base.ReservationRepo.items[id] = res
	}
	for id, b := range u.bookings.pending {
		u.base.BookingRepo.items[id] = b
	}
	for key, rec := range u.availability.pending {
		u.base.AvailabilityRepo.ledgers[key] = rec
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done = true
	return nil
}

type stagedGuests struct {
	base    *GuestRepository
	pending map[string]*domainguest.Guest
}

func (s *stagedGuests) Create(ctx context.Context, g *domainguest.Guest) error {
	clone := *g
	s.pending[g.ID] = &clone
	return nil
}

func (s *stagedGuests) ByID(ctx context.Context, id string) (*domainguest.Guest, error) {
	if g, ok := s.pending[id]; ok {
		clone := *g
		return &clone, nil
	}
	return s.base.ByID(ctx, id)
}

type stagedReservations struct {
	base    *ReservationRepository
	pending map[string]*domainreservation.Reservation
	floors  map[string]int64
}

func (s *stagedReservations) ByID(ctx context.Context, hotelID int64, id string) (*domainreservation.Reservation, error) {
	if res, ok := s.pending[id]; ok {
		if res.HotelID != hotelID {
			return nil, domainreservation.ErrNotFound
		}
		return cloneReservation(res), nil
	}
	return s.base.ByID(ctx, hotelID, id)
}

func (s *stagedReservations) Save(ctx context.Context, res *domainreservation.Reservation) error {
	if _, staged := s.pending[res.ID]; !staged {
		s.floors[res.ID] = s.base.currentVersion(res.ID)
	}
	res.Version++
	s.pending[res.ID] = cloneReservation(res)
	return nil
}

func (s *stagedReservations) ActiveFrom(ctx context.Context, hotelID int64, day time.Time) ([]*domainreservation.Reservation, error) {
	list, err := s.base.ActiveFrom(ctx, hotelID, day)
	if err != nil {
		return nil, err
	}
	from := daterange.Day(day)
	return s.overlay(list, func(res *domainreservation.Reservation) bool {
		return res.HotelID == hotelID &&
			res.Status == domainreservation.StatusActive &&
			!res.Stay.CheckIn.Before(from)
	}), nil
}

func (s *stagedReservations) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainreservation.Reservation, error) {
	list, err := s.base.ByCheckInRange(ctx, hotelID, from, to)
	if err != nil {
		return nil, err
	}
	lo, hi := daterange.Day(from), daterange.Day(to)
	return s.overlay(list, func(res *domainreservation.Reservation) bool {
		return res.HotelID == hotelID &&
			!res.Stay.CheckIn.Before(lo) &&
			!res.Stay.CheckIn.After(hi)
	}), nil
}

// overlay replaces base rows with their staged versions and adds staged rows
// the base query could not see yet.
func (s *stagedReservations) overlay(list []*domainreservation.Reservation, match func(*domainreservation.Reservation) bool) []*domainreservation.Reservation {
	if len(s.pending) == 0 {
		return list
	}
	seen := make(map[string]bool, len(list))
	out := make([]*domainreservation.Reservation, 0, len(list)+len(s.pending))
	for _, res := range list {
		seen[res.ID] = true
		if staged, ok := s.pending[res.ID]; ok {
			if match(staged) {
				out = append(out, cloneReservation(staged))
			}
			continue
		}
		out = append(out, res)
	}
	for id, staged := range s.pending {
		if seen[id] || !match(staged) {
			continue
		}
		out = append(out, cloneReservation(staged))
	}
	sortReservations(out)
	return out
}

type stagedBookings struct {
	base    *BookingRepository
	pending map[string]*domainbooking.Booking
	floors  map[string]int64
}

func (s *stagedBookings) ByID(ctx context.Context, hotelID int64, id string) (*domainbooking.Booking, error) {
	if b, ok := s.pending[id]; ok {
		if b.HotelID != hotelID {
			return nil, domainbooking.ErrNotFound
		}
		return cloneBooking(b), nil
	}
	return s.base.ByID(ctx, hotelID, id)
}

func (s *stagedBookings) Save(ctx context.Context, b *domainbooking.Booking) error {
	if _, staged := s.pending[b.ID]; !staged {
		s.floors[b.ID] = s.base.currentVersion(b.ID)
	}
	b.Version++
	s.pending[b.ID] = cloneBooking(b)
	return nil
}

func (s *stagedBookings) Replace(ctx context.Context, b *domainbooking.Booking) error {
	if _, staged := s.pending[b.ID]; !staged {
		if !s.base.contains(b.ID) {
			return domainbooking.ErrNotFound
		}
		s.floors[b.ID] = s.base.currentVersion(b.ID)
	}
	b.Version++
	s.pending[b.ID] = cloneBooking(b)
	return nil
}

func (s *stagedBookings) ByCheckInDay(ctx context.Context, hotelID int64, day time.Time) ([]*domainbooking.Booking, error) {
	start := daterange.Day(day)
	return s.ByCheckInRange(ctx, hotelID, start, start)
}

func (s *stagedBookings) ByCheckInRange(ctx context.Context, hotelID int64, from, to time.Time) ([]*domainbooking.Booking, error) {
	list, err := s.base.ByCheckInRange(ctx, hotelID, from, to)
	if err != nil {
		return nil, err
	}
	if len(s.pending) == 0 {
		return list, nil
	}
	lo, hi := daterange.Day(from), daterange.Day(to)
	match := func(b *domainbooking.Booking) bool {
		day := daterange.Day(b.Stay.CheckIn)
		return b.HotelID == hotelID && !day.Before(lo) && !day.After(hi)
	}
	seen := make(map[string]bool, len(list))
	out := make([]*domainbooking.Booking, 0, len(list)+len(s.pending))
	for _, b := range list {
		seen[b.ID] = true
		if staged, ok := s.pending[b.ID]; ok {
			if match(staged) {
				out = append(out, cloneBooking(staged))
			}
			continue
		}
		out = append(out, b)
	}
	for id, staged := range s.pending {
		if seen[id] || !match(staged) {
			continue
		}
		out = append(out, cloneBooking(staged))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stay.CheckIn.Before(out[j].Stay.CheckIn)
	})
	return out, nil
}

type stagedAvailability struct {
	base    *AvailabilityRepository
	pending map[ledgerKey]*domainavailability.RoomAvailability
	floors  map[ledgerKey][]domainavailability.Hold
}

// ledger returns the staged copy for the room, pulling it from the base
// store on first touch and remembering the holds it was based on.
func (s *stagedAvailability) ledger(hotelID, roomID int64) *domainavailability.RoomAvailability {
	key := ledgerKey{hotelID: hotelID, roomID: roomID}
	if rec, ok := s.pending[key]; ok {
		return rec
	}
	if rec, ok := s.base.peek(hotelID, roomID); ok {
		s.floors[key] = append([]domainavailability.Hold(nil), rec.Holds...)
		s.pending[key] = rec
		return rec
	}
	rec := domainavailability.NewRecord(hotelID, roomID, time.Now().UTC())
	s.floors[key] = nil
	s.pending[key] = rec
	return rec
}

func (s *stagedAvailability) Record(ctx context.Context, hotelID, roomID int64) (*domainavailability.RoomAvailability, error) {
	return cloneLedger(s.ledger(hotelID, roomID)), nil
}

func (s *stagedAvailability) AppendHold(ctx context.Context, hotelID, roomID int64, hold domainavailability.Hold) error {
	rec := s.ledger(hotelID, roomID)
	rec.Holds = append(rec.Holds, hold)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stagedAvailability) ShiftHoldEnd(ctx context.Context, hotelID, roomID int64, linkID string, newTo time.Time) error {
	key := ledgerKey{hotelID: hotelID, roomID: roomID}
	if _, ok := s.pending[key]; !ok {
		if _, exists := s.base.peek(hotelID, roomID); !exists {
			return domainavailability.ErrHoldNotFound
		}
	}
	return s.ledger(hotelID, roomID).ShiftHoldEnd(linkID, newTo, time.Now())
}

func holdsEqual(a, b []domainavailability.Hold) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].From.Equal(b[i].From) || !a[i].To.Equal(b[i].To) ||
			a[i].Kind != b[i].Kind || a[i].LinkID != b[i].LinkID {
			return false
		}
	}
	return true
}

var (
	_ uow.UnitOfWork                = (*Unit)(nil)
	_ domainguest.Repository        = (*stagedGuests)(nil)
	_ domainreservation.Repository  = (*stagedReservations)(nil)
	_ domainbooking.Repository      = (*stagedBookings)(nil)
	_ domainavailability.Repository = (*stagedAvailability)(nil)
)
