package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/dates"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID          string        `bson:"_id"`
	ListingID   string        `bson:"listing_id"`
	GuestID     string        `bson:"guest_id"`
	CheckIn     int           `bson:"check_in"`
	CheckOut    int           `bson:"check_out"`
	Guests      int           `bson:"guests"`
	Quote       pricing.Quote `bson:"quote"`
	State       string        `bson:"state"`
	Payment     string        `bson:"payment"`
	CheckoutRef string        `bson:"checkout_ref"`
	CreatedAt   int64         `bson:"created_at"`
	UpdatedAt   int64         `bson:"updated_at"`
	Version     int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:          string(b.ID),
		ListingID:   string(b.ListingID),
		GuestID:     b.GuestID,
		CheckIn:     int(b.Range.Start),
		CheckOut:    int(b.Range.End),
		Guests:      b.Guests,
		Quote:       b.Quote,
		State:       string(b.State),
		Payment:     string(b.Payment),
		CheckoutRef: b.CheckoutRef,
		CreatedAt:   b.CreatedAt.UnixMilli(),
		UpdatedAt:   b.UpdatedAt.UnixMilli(),
		Version:     b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		ListingID:   domainlistings.ListingID(d.ListingID),
		GuestID:     d.GuestID,
		Range:       dates.DateRange{Start: dates.Date(d.CheckIn), End: dates.Date(d.CheckOut)},
		Guests:      d.Guests,
		Quote:       d.Quote,
		State:       domainbooking.BookingState(d.State),
		Payment:     domainbooking.PaymentStatus(d.Payment),
		CheckoutRef: d.CheckoutRef,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}
