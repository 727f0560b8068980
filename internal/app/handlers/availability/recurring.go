package availability

import (
	"context"
	"time"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
)

const applyRecurringKey = "availability.apply_recurring"

type ApplyRecurringCommand struct {
	ListingID   string
	HostID      string
	Pattern     domainavailability.PatternType
	Selectors   []int
	WindowStart dates.Date
	WindowEnd   dates.Date
}

func (c ApplyRecurringCommand) Key() string        { return applyRecurringKey }
func (c ApplyRecurringCommand) ListingKey() string { return c.ListingID }

type ApplyRecurringResult struct {
	Expanded []dates.Date `json:"expanded"`
	Applied  []dates.Date `json:"applied"`
	Rejected []dates.Date `json:"rejected"`
}

// ApplyRecurringHandler expands a weekly or monthly pattern over the
// window and blocks the matching dates. Dates already covered by a
// booking are reported back as rejected, not failed.
type ApplyRecurringHandler struct {
	UoWFactory uow.Factory
}

func (h *ApplyRecurringHandler) Handle(ctx context.Context, cmd ApplyRecurringCommand) (*ApplyRecurringResult, error) {
	window, err := dates.NewRange(cmd.WindowStart, cmd.WindowEnd)
	if err != nil {
		return nil, err
	}
	expanded, err := domainavailability.ExpandPattern(cmd.Pattern, cmd.Selectors, window)
	if err != nil {
		return nil, err
	}

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

	applied, rejected := cal.SetBlocked(expanded, time.Now().UTC())

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
	return &ApplyRecurringResult{Expanded: expanded, Applied: applied, Rejected: rejected}, nil
}

var _ commands.Handler[ApplyRecurringCommand, *ApplyRecurringResult] = (*ApplyRecurringHandler)(nil)
var _ middleware.ListingScoped = ApplyRecurringCommand{}
