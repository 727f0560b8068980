package availability

import (
	"context"
	"time"

	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/queries"
	"roamstay/internal/app/uow"
	domainanalytics "roamstay/internal/domain/analytics"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
)

const getAnalyticsKey = "availability.get_analytics"

// DefaultAnalyticsWindowDays sizes the trailing window when the caller
// leaves it unset.
const DefaultAnalyticsWindowDays = 90

type GetAnalyticsQuery struct {
	ListingID  string
	HostID     string
	WindowDays int
}

func (q GetAnalyticsQuery) Key() string { return getAnalyticsKey }

type GetAnalyticsHandler struct {
	UoWFactory uow.Factory
}

func (h *GetAnalyticsHandler) Handle(ctx context.Context, q GetAnalyticsQuery) (*dto.AnalyticsReport, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	listing, err := support.OwnedListing(ctx, unit, listingID, domainlistings.HostID(q.HostID))
	if err != nil {
		return nil, err
	}
	cal, err := support.CalendarFor(ctx, unit, listingID)
	if err != nil {
		return nil, err
	}

	window := q.WindowDays
	if window == 0 {
		window = DefaultAnalyticsWindowDays
	}
	report, err := domainanalytics.Compute(cal, listing.NightlyRate, dates.FromTime(time.Now().UTC()), window)
	if err != nil {
		return nil, err
	}

	mapped := dto.MapAnalytics(report)
	return &mapped, nil
}

var _ queries.Handler[GetAnalyticsQuery, *dto.AnalyticsReport] = (*GetAnalyticsHandler)(nil)
