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

const setBlockedKey = "availability.set_blocked"

// BlockMode controls how an incoming date set combines with the stored one.
type BlockMode string

const (
	// ModeAugment adds the given dates to the blocked set.
	ModeAugment BlockMode = "augment"
	// ModeReplace makes the blocked set exactly the given dates, clearing
	// previously blocked dates that are absent from the request.
	ModeReplace BlockMode = "replace"
)

type SetBlockedCommand struct {
	ListingID string
	HostID    string
	Dates     []dates.Date
	Mode      BlockMode
}

func (c SetBlockedCommand) Key() string        { return setBlockedKey }
func (c SetBlockedCommand) ListingKey() string { return c.ListingID }

type SetBlockedResult struct {
	Applied   []dates.Date `json:"applied"`
	Rejected  []dates.Date `json:"rejected"`
	Unblocked []dates.Date `json:"unblocked,omitempty"`
}

type SetBlockedHandler struct {
	UoWFactory uow.Factory
}

func (h *SetBlockedHandler) Handle(ctx context.Context, cmd SetBlockedCommand) (*SetBlockedResult, error) {
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

	now := time.Now().UTC()
	result := &SetBlockedResult{}
	if cmd.Mode == ModeReplace {
		result.Unblocked = cal.ClearBlocked(replaceRemovals(cal, cmd.Dates), now)
	}
	result.Applied, result.Rejected = cal.SetBlocked(cmd.Dates, now)

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
	return result, nil
}

// replaceRemovals returns the currently blocked dates that are absent from
// the incoming set.
func replaceRemovals(cal *domainavailability.Calendar, incoming []dates.Date) []dates.Date {
	keep := make(map[dates.Date]struct{}, len(incoming))
	for _, d := range incoming {
		keep[d] = struct{}{}
	}
	var removals []dates.Date
	for _, d := range cal.BlockedDates() {
		if _, ok := keep[d]; !ok {
			removals = append(removals, d)
		}
	}
	return removals
}

var _ commands.Handler[SetBlockedCommand, *SetBlockedResult] = (*SetBlockedHandler)(nil)
var _ middleware.ListingScoped = SetBlockedCommand{}
