package availability

import (
	"context"
	"time"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/uow"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
)

const clearBlockedKey = "availability.clear_blocked"

type ClearBlockedCommand struct {
	ListingID string
	HostID    string
	Dates     []dates.Date
}

func (c ClearBlockedCommand) Key() string        { return clearBlockedKey }
func (c ClearBlockedCommand) ListingKey() string { return c.ListingID }

type ClearBlockedResult struct {
	Unblocked []dates.Date `json:"unblocked"`
}

type ClearBlockedHandler struct {
	UoWFactory uow.Factory
}

func (h *ClearBlockedHandler) Handle(ctx context.Context, cmd ClearBlockedCommand) (*ClearBlockedResult, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	committed := false
	if cleanup != nil {
		defer func() {
			if !committed {
				cleanup()
			}
		}()
	}

	listingID := domainlistings.ListingID(cmd.ListingID)
	if _, err := support.OwnedListing(ctx, unit, listingID, domainlistings.HostID(cmd.HostID)); err != nil {
		return nil, err
	}
	cal, err := support.CalendarFor(ctx, unit, listingID)
	if err != nil {
		return nil, err
	}

	unblocked := cal.ClearBlocked(cmd.Dates, time.Now().UTC())

	if err := unit.Availability().Save(ctx, cal); err != nil {
		return nil, err
	}
	support.DrainEvents(ctx, cal)

	if cleanup != nil {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &ClearBlockedResult{Unblocked: unblocked}, nil
}

var _ commands.Handler[ClearBlockedCommand, *ClearBlockedResult] = (*ClearBlockedHandler)(nil)
var _ middleware.ListingScoped = ClearBlockedCommand{}
