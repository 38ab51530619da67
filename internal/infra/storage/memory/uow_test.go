package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelier/internal/app/uow"
	"hotelier/internal/domain/availability"
	"hotelier/internal/domain/pricing"
	"hotelier/internal/domain/reservation"
	"hotelier/internal/domain/shared/daterange"
	"hotelier/internal/infra/storage/memory"
)

func newFactory() memory.Factory {
	return memory.Factory{
		GuestRepo:        memory.NewGuestRepository(),
		ReservationRepo:  memory.NewReservationRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		AvailabilityRepo: memory.NewAvailabilityRepository(),
	}
}

func testReservation(t *testing.T, id string) *reservation.Reservation {
	t.Helper()
	day := daterange.Day(time.Now().UTC())
	stay, err := daterange.New(day, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("stay: %v", err)
	}
	res, err := reservation.New(reservation.CreateParams{
		ID:        id,
		GuestID:   "guest-1",
		Quote:     pricing.Quote{HotelID: 1, RoomIDs: []int64{101}, Stay: stay},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("reservation: %v", err)
	}
	return res
}

func testHold(linkID string) availability.Hold {
	day := daterange.Day(time.Now().UTC())
	return availability.Hold{
		From:      day,
		To:        day.AddDate(0, 0, 2),
		Kind:      availability.HoldGrey,
		LinkID:    linkID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestUnitBuffersWritesUntilCommit(t *testing.T) {
	f := newFactory()
	ctx := context.Background()
	unit, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := unit.Reservations().Save(ctx, testReservation(t, "res-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := unit.Availability().AppendHold(ctx, 1, 101, testHold("res-1")); err != nil {
		t.Fatalf("AppendHold: %v", err)
	}

	if _, err := f.ReservationRepo.ByID(ctx, 1, "res-1"); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("write visible before commit: %v", err)
	}
	if _, err := unit.Reservations().ByID(ctx, 1, "res-1"); err != nil {
		t.Fatalf("staged read within the unit: %v", err)
	}
	rec, err := unit.Availability().Record(ctx, 1, 101)
	if err != nil || len(rec.Holds) != 1 {
		t.Fatalf("staged ledger read: err=%v holds=%d", err, len(rec.Holds))
	}

	if err := unit.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := f.ReservationRepo.ByID(ctx, 1, "res-1"); err != nil {
		t.Fatalf("write lost after commit: %v", err)
	}
	applied, err := f.AvailabilityRepo.Record(ctx, 1, 101)
	if err != nil || len(applied.Holds) != 1 {
		t.Fatalf("hold not applied: err=%v holds=%d", err, len(applied.Holds))
	}
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	f := newFactory()
	ctx := context.Background()
	unit, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := unit.Reservations().Save(ctx, testReservation(t, "res-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := unit.Availability().AppendHold(ctx, 1, 101, testHold("res-1")); err != nil {
		t.Fatalf("AppendHold: %v", err)
	}
	if err := unit.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if _, err := f.ReservationRepo.ByID(ctx, 1, "res-1"); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("reservation survived rollback: %v", err)
	}
	rec, err := f.AvailabilityRepo.Record(ctx, 1, 101)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Holds) != 0 {
		t.Fatalf("%d hold(s) survived rollback", len(rec.Holds))
	}
}

func TestCommitRejectsConflictingHoldAppend(t *testing.T) {
	f := newFactory()
	ctx := context.Background()
	first, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin first: %v", err)
	}
	second, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin second: %v", err)
	}

	// Both units observe the empty ledger before either commits.
	if _, err := first.Availability().Record(ctx, 1, 101); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if _, err := second.Availability().Record(ctx, 1, 101); err != nil {
		t.Fatalf("second Record: %v", err)
	}
	if err := first.Availability().AppendHold(ctx, 1, 101, testHold("res-1")); err != nil {
		t.Fatalf("first AppendHold: %v", err)
	}
	if err := second.Availability().AppendHold(ctx, 1, 101, testHold("res-2")); err != nil {
		t.Fatalf("second AppendHold: %v", err)
	}

	if err := first.Commit(ctx); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	if err := second.Commit(ctx); !errors.Is(err, memory.ErrConcurrentUpdate) {
		t.Fatalf("second Commit: got %v, want ErrConcurrentUpdate", err)
	}

	rec, err := f.AvailabilityRepo.Record(ctx, 1, 101)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Holds) != 1 || rec.Holds[0].LinkID != "res-1" {
		t.Fatalf("losing unit leaked holds: %+v", rec.Holds)
	}
}

func TestCommitRejectsStaleAggregateVersion(t *testing.T) {
	f := newFactory()
	ctx := context.Background()
	if err := f.ReservationRepo.Save(ctx, testReservation(t, "res-1")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin first: %v", err)
	}
	second, err := f.Begin(ctx, uow.TxOptions{})
	if err != nil {
		t.Fatalf("Begin second: %v", err)
	}

	a, err := first.Reservations().ByID(ctx, 1, "res-1")
	if err != nil {
		t.Fatalf("first ByID: %v", err)
	}
	b, err := second.Reservations().ByID(ctx, 1, "res-1")
	if err != nil {
		t.Fatalf("second ByID: %v", err)
	}
	if err := a.MarkCheckedOut(time.Now().UTC()); err != nil {
		t.Fatalf("close a: %v", err)
	}
	if err := first.Reservations().Save(ctx, a); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := second.Reservations().Save(ctx, b); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	if err := first.Commit(ctx); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	if err := second.Commit(ctx); !errors.Is(err, memory.ErrConcurrentUpdate) {
		t.Fatalf("second Commit: got %v, want ErrConcurrentUpdate", err)
	}

	stored, err := f.ReservationRepo.ByID(ctx, 1, "res-1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.Status != reservation.StatusClosed {
		t.Fatalf("first writer's update lost: %+v", stored)
	}
}
