package uow

import (
	"context"

	domainavailability "hotelier/internal/domain/availability"
	domainbooking "hotelier/internal/domain/booking"
	domainguest "hotelier/internal/domain/guest"
	domainreservation "hotelier/internal/domain/reservation"
)

// UnitOfWork groups the repositories touched by one orchestrated write so
// that guest, reservation/booking and ledger mutations commit together or
// not at all.
type UnitOfWork interface {
	Guests() domainguest.Repository
	Reservations() domainreservation.Repository
	Bookings() domainbooking.Repository
	Availability() domainavailability.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
