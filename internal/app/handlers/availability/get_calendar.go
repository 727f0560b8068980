package availability

import (
	"context"

	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/queries"
	"roamstay/internal/app/uow"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
)

const getCalendarKey = "availability.get_calendar"

type GetCalendarQuery struct {
	ListingID string
	From      dates.Date
	To        dates.Date
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler resolves a per-day view of the calendar. It is open
// to guests as well as hosts, so there is no ownership check.
type GetCalendarHandler struct {
	UoWFactory uow.Factory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (*dto.Calendar, error) {
	window, err := dates.NewRange(q.From, q.To)
	if err != nil {
		return nil, err
	}

	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	cal, err := support.CalendarFor(ctx, unit, listingID)
	if err != nil {
		return nil, err
	}

	mapped := dto.MapCalendar(cal, listing, window)
	return &mapped, nil
}

var _ queries.Handler[GetCalendarQuery, *dto.Calendar] = (*GetCalendarHandler)(nil)
