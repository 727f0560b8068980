package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "roamstay/internal/domain/availability"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrCalendarNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *domainavailability.Calendar) error {
	doc := newCalendarDocument(cal)
	filter := bson.M{"_id": doc.ID, "version": cal.Version}
	doc.Version = cal.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainavailability.ErrVersionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainavailability.ErrVersionConflict
	}
	cal.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID         string              `bson:"_id"`
	Blocked    []int               `bson:"blocked"`
	Bookings   []bookingBlockDoc   `bson:"bookings"`
	Variations []variationDocument `bson:"variations"`
	Version    int64               `bson:"version"`
}

type bookingBlockDoc struct {
	Start     int    `bson:"start"`
	End       int    `bson:"end"`
	BookingID string `bson:"booking_id"`
	CreatedAt int64  `bson:"created_at"`
}

type variationDocument struct {
	ID        string      `bson:"_id"`
	Start     int         `bson:"start"`
	End       int         `bson:"end"`
	Price     money.Money `bson:"price"`
	Reason    string      `bson:"reason"`
	CreatedAt int64       `bson:"created_at"`
}

func newCalendarDocument(cal *domainavailability.Calendar) calendarDocument {
	doc := calendarDocument{ID: string(cal.ListingID), Version: cal.Version}
	for _, d := range cal.BlockedDates() {
		doc.Blocked = append(doc.Blocked, int(d))
	}
	for _, b := range cal.Bookings {
		doc.Bookings = append(doc.Bookings, bookingBlockDoc{
			Start:     int(b.Range.Start),
			End:       int(b.Range.End),
			BookingID: b.BookingID,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	for _, v := range cal.Variations {
		doc.Variations = append(doc.Variations, variationDocument{
			ID:        string(v.ID),
			Start:     int(v.Range.Start),
			End:       int(v.Range.End),
			Price:     v.Price,
			Reason:    v.Reason,
			CreatedAt: v.CreatedAt.UnixMilli(),
		})
	}
	return doc
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	cal := domainavailability.NewCalendar(domainlistings.ListingID(d.ID))
	cal.Version = d.Version
	for _, b := range d.Blocked {
		cal.Blocked[dates.Date(b)] = struct{}{}
	}
	for _, b := range d.Bookings {
		cal.Bookings = append(cal.Bookings, domainavailability.BookingBlock{
			Range:     dates.DateRange{Start: dates.Date(b.Start), End: dates.Date(b.End)},
			BookingID: b.BookingID,
			CreatedAt: timestampToTime(b.CreatedAt),
		})
	}
	for _, v := range d.Variations {
		cal.Variations = append(cal.Variations, domainavailability.PricingVariation{
			ID:        domainavailability.VariationID(v.ID),
			Range:     dates.DateRange{Start: dates.Date(v.Start), End: dates.Date(v.End)},
			Price:     v.Price,
			Reason:    v.Reason,
			CreatedAt: timestampToTime(v.CreatedAt),
		})
	}
	return cal
}
