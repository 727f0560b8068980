package ginserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamstay/internal/app/commands"
	availabilityapp "roamstay/internal/app/handlers/availability"
	bookingapp "roamstay/internal/app/handlers/booking"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/policies"
	"roamstay/internal/app/queries"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
	"roamstay/internal/infra/config"
	ginserver "roamstay/internal/infra/http/gin"
	"roamstay/internal/infra/obs"
	"roamstay/internal/infra/storage/memory"
)

type stubPayments struct{}

func (stubPayments) CreateCheckoutSession(ctx context.Context, bookingID string, amount money.Money) (policies.CheckoutSession, error) {
	return policies.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

const (
	hostID    = "host-1"
	guestID   = "guest-1"
	listingID = "listing-1"
)

func newTestServer(t *testing.T) *http.Server {
	t.Helper()
	factory := memory.NewFactory()

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(listingID),
		Host:        domainlistings.HostID(hostID),
		Title:       "Lakeside cabin",
		NightlyRate: money.Must(2000, "INR"),
		GuestsLimit: 4,
		Now:         time.Now().UTC(),
	})
	require.NoError(t, err)
	listing.Activate(time.Now().UTC())
	require.NoError(t, factory.ListingsRepo.Save(context.Background(), listing))

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.SetBlockedCommand{}.Key(), &availabilityapp.SetBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ClearBlockedCommand{}.Key(), &availabilityapp.ClearBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ApplyRecurringCommand{}.Key(), &availabilityapp.ApplyRecurringHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.AddPricingVariationCommand{}.Key(), &availabilityapp.AddPricingVariationHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.RemovePricingVariationCommand{}.Key(), &availabilityapp.RemovePricingVariationHandler{})
	commands.RegisterHandler(commandBus, bookingapp.CreateCheckoutCommand{}.Key(), &bookingapp.CreateCheckoutHandler{
		Payments: stubPayments{},
		Fees:     pricing.DefaultFees(),
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmPaymentCommand{}.Key(), &bookingapp.ConfirmPaymentHandler{})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.GetAnalyticsQuery{}.Key(), &availabilityapp.GetAnalyticsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.ListPricingVariationsQuery{}.Key(), &availabilityapp.ListPricingVariationsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.GuestBookingsQuery{}.Key(), &bookingapp.GuestBookingsHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.ListingLock(middleware.NewKeyedMutex()),
		middleware.Transaction(factory),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	cfg := config.Config{Env: "test", HTTPAddr: ":0", Currency: "INR"}
	return ginserver.NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Currency: "INR",
		},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	})
}

func doJSON(t *testing.T, server *http.Server, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func day(offset int) string {
	return dates.Today().AddDays(offset).String()
}

func TestHealthProbes(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/livez", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBlockAndReadCalendar(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPut, "/api/v1/listings/"+listingID+"/availability", hostID, map[string]any{
		"dates": []string{day(1), day(2)},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodGet,
		fmt.Sprintf("/api/v1/listings/%s/availability?from=%s&to=%s", listingID, day(0), day(3)), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			Days []struct {
				Date   string `json:"date"`
				Status string `json:"status"`
			} `json:"days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data.Days, 3)
	assert.Equal(t, "available", payload.Data.Days[0].Status)
	assert.Equal(t, "blocked", payload.Data.Days[1].Status)
	assert.Equal(t, "blocked", payload.Data.Days[2].Status)
}

func TestBlockRequiresIdentity(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPut, "/api/v1/listings/"+listingID+"/availability", "", map[string]any{
		"dates": []string{day(1)},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBlockRejectsForeignHost(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPut, "/api/v1/listings/"+listingID+"/availability", "intruder", map[string]any{
		"dates": []string{day(1)},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckoutConflictReturns409(t *testing.T) {
	server := newTestServer(t)

	body := map[string]any{
		"listing_id": listingID,
		"check_in":   day(10),
		"check_out":  day(13),
		"guests":     2,
	}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings/create-checkout-session", guestID, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodPost, "/api/v1/bookings/create-checkout-session", "guest-2", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutRejectsBadRange(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings/create-checkout-session", guestID, map[string]any{
		"listing_id": listingID,
		"check_in":   day(13),
		"check_out":  day(10),
		"guests":     2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownListingReturns404(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet,
		fmt.Sprintf("/api/v1/listings/nope/availability?from=%s&to=%s", day(0), day(3)), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecurringBlocksEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/listings/"+listingID+"/availability/recurring-blocks", hostID, map[string]any{
		"pattern":      "weekly",
		"selectors":    []int{0, 6},
		"window_start": day(0),
		"window_end":   day(28),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			Applied []string `json:"applied"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 8, len(payload.Data.Applied))
}

func TestPricingVariationEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/listings/"+listingID+"/availability/pricing-variations", hostID, map[string]any{
		"start_date": day(10),
		"end_date":   day(12),
		"price":      4200,
		"reason":     "long weekend",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// overlapping variation is rejected
	rec = doJSON(t, server, http.MethodPost, "/api/v1/listings/"+listingID+"/availability/pricing-variations", hostID, map[string]any{
		"start_date": day(11),
		"end_date":   day(14),
		"price":      5000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodDelete,
		"/api/v1/listings/"+listingID+"/availability/pricing-variations/"+created.Data.ID, hostID, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAnalyticsEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet,
		"/api/v1/listings/"+listingID+"/availability/analytics?days=30", hostID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			WindowDays    int `json:"window_days"`
			AvailableDays int `json:"available_days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 30, payload.Data.WindowDays)
	assert.Equal(t, 30, payload.Data.AvailableDays)
}

func TestCancelFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/bookings/create-checkout-session", guestID, map[string]any{
		"listing_id": listingID,
		"check_in":   day(10),
		"check_out":  day(12),
		"guests":     2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			BookingID string `json:"booking_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, server, http.MethodPost, "/api/v1/bookings/"+created.Data.BookingID+"/cancel", guestID, map[string]any{
		"reason": "trip cancelled",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodGet, "/api/v1/me/bookings", guestID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bookings struct {
		Data struct {
			Items []struct {
				State string `json:"state"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings.Data.Items, 1)
	assert.Equal(t, "CANCELLED", bookings.Data.Items[0].State)
}
