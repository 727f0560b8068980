package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ListingsRepo domainlistings.Repository
	CalendarRepo domainavailability.Repository
	BookingRepo  domainbooking.Repository
}

// NewFactory builds a factory with repositories bound to db.
func NewFactory(client *Client) Factory {
	return Factory{
		DB:           client.DB,
		ListingsRepo: NewListingRepository(client.DB),
		CalendarRepo: NewCalendarRepository(client.DB),
		BookingRepo:  NewBookingRepository(client.DB),
	}
}

// Begin starts a MongoDB session and transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:      session,
		listings:     f.ListingsRepo,
		availability: f.CalendarRepo,
		bookings:     f.BookingRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	listings     domainlistings.Repository
	availability domainavailability.Repository
	bookings     domainbooking.Repository
}

func (u *Unit) Listings() domainlistings.Repository         { return u.listings }
func (u *Unit) Availability() domainavailability.Repository { return u.availability }
func (u *Unit) Bookings() domainbooking.Repository          { return u.bookings }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session available to downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.Factory = Factory{}
