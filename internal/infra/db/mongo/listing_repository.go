package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	filter := bson.M{"_id": doc.ID, "version": listing.Version}
	doc.Version = listing.Version + 1
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
	listing.Version = doc.Version
	return nil
}

type listingDocument struct {
	ID            string      `bson:"_id"`
	Host          string      `bson:"host"`
	Title         string      `bson:"title"`
	Category      string      `bson:"category"`
	NightlyRate   money.Money `bson:"nightly_rate"`
	BaseOccupancy int         `bson:"base_occupancy"`
	GuestsLimit   int         `bson:"guests_limit"`
	State         string      `bson:"state"`
	CreatedAt     int64       `bson:"created_at"`
	UpdatedAt     int64       `bson:"updated_at"`
	Version       int64       `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:            string(l.ID),
		Host:          string(l.Host),
		Title:         l.Title,
		Category:      string(l.Category),
		NightlyRate:   l.NightlyRate,
		BaseOccupancy: l.BaseOccupancy,
		GuestsLimit:   l.GuestsLimit,
		State:         string(l.State),
		CreatedAt:     l.CreatedAt.UnixMilli(),
		UpdatedAt:     l.UpdatedAt.UnixMilli(),
		Version:       l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:            domainlistings.ListingID(d.ID),
		Host:          domainlistings.HostID(d.Host),
		Title:         d.Title,
		Category:      domainlistings.Category(d.Category),
		NightlyRate:   d.NightlyRate,
		BaseOccupancy: d.BaseOccupancy,
		GuestsLimit:   d.GuestsLimit,
		State:         domainlistings.ListingState(d.State),
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
