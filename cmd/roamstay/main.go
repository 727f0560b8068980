package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"roamstay/internal/app/commands"
	availabilityapp "roamstay/internal/app/handlers/availability"
	bookingapp "roamstay/internal/app/handlers/booking"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/policies"
	"roamstay/internal/app/queries"
	"roamstay/internal/app/uow"
	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/money"
	"roamstay/internal/infra/broker/kafka"
	"roamstay/internal/infra/config"
	infradb "roamstay/internal/infra/db/mongo"
	ginserver "roamstay/internal/infra/http/gin"
	"roamstay/internal/infra/obs"
	"roamstay/internal/infra/payments"
	"roamstay/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := getenv("LISTINGS_FIXTURES", "")
	if fixturesPath != "" {
		if err := app.loadListingFixtures(ctx, fixturesPath); err != nil {
			logger.Warn("listing fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	uowFactory uow.Factory
	producer   *kafka.Producer
	mongo      *infradb.Client
}

func buildApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}

	switch cfg.StorageMode {
	case "mongo":
		client, err := infradb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		app.mongo = client
		app.uowFactory = infradb.NewFactory(client)
	default:
		app.uowFactory = memory.NewFactory()
	}

	var publisher policies.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.producer = producer
		publisher = producer
	} else {
		logger.Warn("no kafka brokers configured, domain events will not be published")
	}

	checkout := payments.NewCheckoutClient(cfg.PaymentsURL, cfg.PaymentsTimeout, logger)

	fees := pricing.FeeSchedule{
		CleaningFeePercent:    cfg.CleaningFeePercent,
		MinCleaningFee:        money.Must(cfg.MinCleaningFee, cfg.Currency),
		BaseOccupancy:         pricing.DefaultFees().BaseOccupancy,
		PerExtraGuestPerNight: money.Must(cfg.PerExtraGuestPerNight, cfg.Currency),
		ServiceFeePercent:     cfg.ServiceFeePercent,
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.SetBlockedCommand{}.Key(), &availabilityapp.SetBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ClearBlockedCommand{}.Key(), &availabilityapp.ClearBlockedHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.ApplyRecurringCommand{}.Key(), &availabilityapp.ApplyRecurringHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.AddPricingVariationCommand{}.Key(), &availabilityapp.AddPricingVariationHandler{})
	commands.RegisterHandler(commandBus, availabilityapp.RemovePricingVariationCommand{}.Key(), &availabilityapp.RemovePricingVariationHandler{})
	commands.RegisterHandler(commandBus, bookingapp.CreateCheckoutCommand{}.Key(), &bookingapp.CreateCheckoutHandler{
		Payments: checkout,
		Fees:     fees,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmPaymentCommand{}.Key(), &bookingapp.ConfirmPaymentHandler{})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.GetAnalyticsQuery{}.Key(), &availabilityapp.GetAnalyticsHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.ListPricingVariationsQuery{}.Key(), &availabilityapp.ListPricingVariationsHandler{UoWFactory: app.uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.GuestBookingsQuery{}.Key(), &bookingapp.GuestBookingsHandler{UoWFactory: app.uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.EventPublish(publisher, logger),
		middleware.ListingLock(middleware.NewKeyedMutex()),
		middleware.Transaction(app.uowFactory),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Availability: ginserver.AvailabilityHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Currency: cfg.Currency,
		},
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	}
	return app, nil
}

func (a *application) ready() error {
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return a.mongo.Ping(ctx)
	}
	return nil
}

func (a *application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
}

type listingFixture struct {
	ID            string `json:"id"`
	Host          string `json:"host"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	NightlyRate   int64  `json:"nightly_rate"`
	Currency      string `json:"currency"`
	BaseOccupancy int    `json:"base_occupancy"`
	GuestsLimit   int    `json:"guests_limit"`
}

func (a *application) loadListingFixtures(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	unit, err := a.uowFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, fx := range fixtures {
		currency := fx.Currency
		if currency == "" {
			currency = "INR"
		}
		listing, err := listings.NewListing(listings.CreateParams{
			ID:            listings.ListingID(fx.ID),
			Host:          listings.HostID(fx.Host),
			Title:         fx.Title,
			Category:      listings.Category(fx.Category),
			NightlyRate:   money.Must(fx.NightlyRate, currency),
			BaseOccupancy: fx.BaseOccupancy,
			GuestsLimit:   fx.GuestsLimit,
			Now:           now,
		})
		if err != nil {
			_ = unit.Rollback(ctx)
			return fmt.Errorf("fixture %s: %w", fx.ID, err)
		}
		listing.Activate(now)
		if err := unit.Listings().Save(ctx, listing); err != nil {
			_ = unit.Rollback(ctx)
			return err
		}
	}
	return unit.Commit(ctx)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
