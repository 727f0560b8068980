package uow

import (
	"context"

	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Availability() domainavailability.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
