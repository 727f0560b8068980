package support

import (
	"context"
	"errors"

	"roamstay/internal/app/middleware"
	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/events"
)

// BeginUnit returns the ambient unit of work, or starts a managed one from
// the factory when the bus pipeline did not install any. The cleanup func
// is nil for ambient units; for managed units it rolls back unless Commit
// was called first.
func BeginUnit(ctx context.Context, factory uow.Factory, opts uow.TxOptions) (uow.UnitOfWork, context.Context, func(), error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := uow.ContextWithUnitOfWork(ctx, newUnit)
	cleanup := func() {
		_ = newUnit.Rollback(execCtx)
	}
	return newUnit, execCtx, cleanup, nil
}

type recorder interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

// DrainEvents moves an aggregate's pending events into the command-scoped
// collector, if one is installed. Without a collector the events are
// simply discarded; state changes must never depend on them.
func DrainEvents(ctx context.Context, aggregates ...recorder) {
	collector, ok := middleware.CollectorFromContext(ctx)
	for _, agg := range aggregates {
		pending := agg.PendingEvents()
		agg.ClearEvents()
		if ok {
			collector.Add(pending...)
		}
	}
}

// CalendarFor loads the listing's calendar, creating a fresh one when the
// listing has no calendar record yet.
func CalendarFor(ctx context.Context, unit uow.UnitOfWork, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	cal, err := unit.Availability().Calendar(ctx, id)
	if err != nil {
		if errors.Is(err, domainavailability.ErrCalendarNotFound) {
			return domainavailability.NewCalendar(id), nil
		}
		return nil, err
	}
	return cal, nil
}

// OwnedListing loads a listing and verifies the acting host owns it.
func OwnedListing(ctx context.Context, unit uow.UnitOfWork, id domainlistings.ListingID, host domainlistings.HostID) (*domainlistings.Listing, error) {
	listing, err := unit.Listings().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(host) {
		return nil, domainlistings.ErrNotHost
	}
	return listing, nil
}
