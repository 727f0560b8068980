package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	availabilityapp "roamstay/internal/app/handlers/availability"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/policies"
	"roamstay/internal/app/queries"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/events"
	"roamstay/internal/domain/shared/money"
	"roamstay/internal/infra/storage/memory"
)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

type fixture struct {
	commands  commands.Bus
	queries   queries.Bus
	publisher *capturingPublisher
	factory   memory.Factory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	factory := memory.NewFactory()
	publisher := &capturingPublisher{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.SetBlockedCommand{}.Key(), &availabilityapp.SetBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ClearBlockedCommand{}.Key(), &availabilityapp.ClearBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ApplyRecurringCommand{}.Key(), &availabilityapp.ApplyRecurringHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.AddPricingVariationCommand{}.Key(), &availabilityapp.AddPricingVariationHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.RemovePricingVariationCommand{}.Key(), &availabilityapp.RemovePricingVariationHandler{})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.GetAnalyticsQuery{}.Key(), &availabilityapp.GetAnalyticsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.ListPricingVariationsQuery{}.Key(), &availabilityapp.ListPricingVariationsHandler{UoWFactory: factory})

	return &fixture{
		commands: middleware.ChainCommands(
			commandBus,
			middleware.EventPublish(publisher, nil),
			middleware.ListingLock(middleware.NewKeyedMutex()),
			middleware.Transaction(factory),
		),
		queries:   middleware.ChainQueries(queryBus),
		publisher: publisher,
		factory:   factory,
	}
}

var _ policies.Publisher = (*capturingPublisher)(nil)

const (
	hostID    = "host-1"
	listingID = "listing-1"
)

func (f *fixture) seedListing(t *testing.T) {
	t.Helper()
	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(listingID),
		Host:        domainlistings.HostID(hostID),
		Title:       "Hillside cottage",
		NightlyRate: money.Must(2000, "INR"),
		GuestsLimit: 4,
		Now:         time.Now().UTC(),
	})
	require.NoError(t, err)
	listing.Activate(time.Now().UTC())
	require.NoError(t, f.factory.ListingsRepo.Save(context.Background(), listing))
}

func day(offset int) dates.Date {
	return dates.Today().AddDays(offset)
}

func TestSetBlockedAugmentsAndPublishes(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	result, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		context.Background(), f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID,
			HostID:    hostID,
			Dates:     []dates.Date{day(1), day(2)},
			Mode:      availabilityapp.ModeAugment,
		})
	require.NoError(t, err)
	assert.ElementsMatch(t, []dates.Date{day(1), day(2)}, result.Applied)
	assert.Empty(t, result.Rejected)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, "calendar.blocked", f.publisher.published[0].EventName())
	assert.Equal(t, listingID, f.publisher.published[0].AggregateID())
}

func TestSetBlockedReplaceClearsAbsentDates(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	_, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		context.Background(), f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID, HostID: hostID,
			Dates: []dates.Date{day(1), day(2), day(3)},
			Mode:  availabilityapp.ModeAugment,
		})
	require.NoError(t, err)

	result, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		context.Background(), f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID, HostID: hostID,
			Dates: []dates.Date{day(2), day(5)},
			Mode:  availabilityapp.ModeReplace,
		})
	require.NoError(t, err)
	assert.ElementsMatch(t, []dates.Date{day(1), day(3)}, result.Unblocked)

	cal, err := f.factory.CalendarRepo.Calendar(context.Background(), domainlistings.ListingID(listingID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []dates.Date{day(2), day(5)}, cal.BlockedDates())
}

func TestSetBlockedRejectsForeignHost(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	_, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		context.Background(), f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID, HostID: "someone-else",
			Dates: []dates.Date{day(1)},
		})
	assert.ErrorIs(t, err, domainlistings.ErrNotHost)
	assert.Empty(t, f.publisher.published)
}

func TestApplyRecurringBlocksMatchingDays(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	start := dates.New(2026, time.September, 1)
	result, err := commands.Dispatch[availabilityapp.ApplyRecurringCommand, *availabilityapp.ApplyRecurringResult](
		context.Background(), f.commands, availabilityapp.ApplyRecurringCommand{
			ListingID:   listingID,
			HostID:      hostID,
			Pattern:     "weekly",
			Selectors:   []int{1}, // Mondays
			WindowStart: start,
			WindowEnd:   start.AddDays(14),
		})
	require.NoError(t, err)
	require.NotEmpty(t, result.Applied)
	for _, d := range result.Applied {
		assert.Equal(t, time.Monday, d.Weekday())
	}
	assert.Equal(t, result.Expanded, result.Applied)
}

func TestPricingVariationLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	ctx := context.Background()

	added, err := commands.Dispatch[availabilityapp.AddPricingVariationCommand, *dto.PricingVariation](
		ctx, f.commands, availabilityapp.AddPricingVariationCommand{
			ListingID: listingID, HostID: hostID,
			StartDate: day(10), EndDate: day(15),
			Price:  money.Must(3500, "INR"),
			Reason: "festival weekend",
		})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	listed, err := queries.Ask[availabilityapp.ListPricingVariationsQuery, *dto.PricingVariationCollection](
		ctx, f.queries, availabilityapp.ListPricingVariationsQuery{ListingID: listingID, HostID: hostID})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Equal(t, int64(3500), listed.Items[0].Price.Amount)

	_, err = commands.Dispatch[availabilityapp.RemovePricingVariationCommand, *availabilityapp.RemovePricingVariationResult](
		ctx, f.commands, availabilityapp.RemovePricingVariationCommand{
			ListingID: listingID, HostID: hostID, VariationID: added.ID,
		})
	require.NoError(t, err)

	listed, err = queries.Ask[availabilityapp.ListPricingVariationsQuery, *dto.PricingVariationCollection](
		ctx, f.queries, availabilityapp.ListPricingVariationsQuery{ListingID: listingID, HostID: hostID})
	require.NoError(t, err)
	assert.Empty(t, listed.Items)
}

func TestGetCalendarShowsPriceOverrides(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	ctx := context.Background()

	_, err := commands.Dispatch[availabilityapp.AddPricingVariationCommand, *dto.PricingVariation](
		ctx, f.commands, availabilityapp.AddPricingVariationCommand{
			ListingID: listingID, HostID: hostID,
			StartDate: day(3), EndDate: day(4),
			Price: money.Must(9000, "INR"),
		})
	require.NoError(t, err)
	_, err = commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		ctx, f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID, HostID: hostID, Dates: []dates.Date{day(1)},
		})
	require.NoError(t, err)

	cal, err := queries.Ask[availabilityapp.GetCalendarQuery, *dto.Calendar](
		ctx, f.queries, availabilityapp.GetCalendarQuery{ListingID: listingID, From: day(0), To: day(5)})
	require.NoError(t, err)
	require.Len(t, cal.Days, 5)

	assert.Equal(t, "blocked", cal.Days[1].Status)
	assert.Equal(t, "available", cal.Days[3].Status)
	assert.True(t, cal.Days[3].Priced)
	assert.Equal(t, int64(9000), cal.Days[3].Price.Amount)
	assert.Equal(t, int64(2000), cal.Days[0].Price.Amount)
}

func TestAnalyticsReflectsBlockedDays(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	ctx := context.Background()

	_, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
		ctx, f.commands, availabilityapp.SetBlockedCommand{
			ListingID: listingID, HostID: hostID,
			Dates: []dates.Date{day(-1), day(-2), day(-3)},
		})
	require.NoError(t, err)

	report, err := queries.Ask[availabilityapp.GetAnalyticsQuery, *dto.AnalyticsReport](
		ctx, f.queries, availabilityapp.GetAnalyticsQuery{ListingID: listingID, HostID: hostID, WindowDays: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, 3, report.BlockedDays)
	assert.Equal(t, 27, report.AvailableDays)
	assert.Equal(t, int64(3*2000), report.EstimatedLoss.Amount)
}
