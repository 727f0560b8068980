package memory

import (
	"context"
	"errors"

	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo domainlistings.Repository
	CalendarRepo domainavailability.Repository
	BookingRepo  domainbooking.Repository
}

// NewFactory builds a factory backed by fresh empty stores.
func NewFactory() Factory {
	return Factory{
		ListingsRepo: NewListingRepository(),
		CalendarRepo: NewCalendarRepository(),
		BookingRepo:  NewBookingRepository(),
	}
}

// Begin starts a lightweight transaction boundary. Writes reach the
// shared stores immediately; isolation comes from repository clones and
// per-aggregate version checks, not from a real transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.CalendarRepo == nil || f.BookingRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{listings: f.ListingsRepo, availability: f.CalendarRepo, bookings: f.BookingRepo}, nil
}

// Unit is a uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings     domainlistings.Repository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
}

func (u *Unit) Listings() domainlistings.Repository         { return u.listings }
func (u *Unit) Availability() domainavailability.Repository { return u.availability }
func (u *Unit) Bookings() domainbooking.Repository          { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.Factory = Factory{}
