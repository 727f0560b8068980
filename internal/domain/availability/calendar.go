package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/events"
	"roamstay/internal/domain/shared/money"
)

var (
	ErrCalendarNotFound  = errors.New("availability: calendar not found")
	ErrVersionConflict   = errors.New("availability: calendar changed concurrently")
	ErrRangeBooked       = errors.New("availability: range overlaps an existing booking")
	ErrRangeBlocked      = errors.New("availability: range contains host-blocked dates")
	ErrBookingNotFound   = errors.New("availability: booking block not found")
	ErrVariationNotFound = errors.New("availability: pricing variation not found")
	ErrVariationOverlap  = errors.New("availability: pricing variation overlaps an existing one")
	ErrNonPositivePrice  = errors.New("availability: override price must be positive")
)

type VariationID string

// PricingVariation overrides the nightly base price for a date range.
type PricingVariation struct {
	ID        VariationID
	Range     dates.DateRange
	Price     money.Money
	Reason    string
	CreatedAt time.Time
}

// BookingBlock mirrors a non-cancelled booking on the calendar so that
// availability decisions never need a join against the booking store.
type BookingBlock struct {
	Range     dates.DateRange
	BookingID string
	CreatedAt time.Time
}

// DayState classifies a single calendar day. Booked wins over blocked: a
// date covered by a live booking is never reported as merely blocked.
type DayState string

const (
	DayAvailable DayState = "available"
	DayBlocked   DayState = "blocked"
	DayBooked    DayState = "booked"
)

// DateStatus is the resolved view of one day. Priced is an overlay: it is
// set whenever a pricing variation covers the day, but an override only
// affects what a guest pays when the day is available.
type DateStatus struct {
	State     DayState
	Priced    bool
	Price     money.Money
	BookingID string
}

// Calendar is the authoritative per-listing availability state: blocked
// dates curated by the host, booking blocks, and pricing variations.
type Calendar struct {
	ListingID  listings.ListingID
	Blocked    map[dates.Date]struct{}
	Bookings   []BookingBlock
	Variations []PricingVariation
	Version    int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id listings.ListingID) (*Calendar, error)
	Save(ctx context.Context, cal *Calendar) error
}

func NewCalendar(id listings.ListingID) *Calendar {
	return &Calendar{ListingID: id, Blocked: make(map[dates.Date]struct{})}
}

// Status resolves the state of a single day.
func (c *Calendar) Status(d dates.Date, base money.Money) DateStatus {
	status := DateStatus{State: DayAvailable, Price: base}
	if v, ok := c.variationFor(d); ok {
		status.Priced = true
		status.Price = v.Price
	}
	if id, booked := c.bookingOn(d); booked {
		status.State = DayBooked
		status.BookingID = id
		return status
	}
	if _, blocked := c.Blocked[d]; blocked {
		status.State = DayBlocked
	}
	return status
}

// NightlyPrice is the price a guest pays for the night starting on d.
func (c *Calendar) NightlyPrice(d dates.Date, base money.Money) money.Money {
	if v, ok := c.variationFor(d); ok {
		return v.Price
	}
	return base
}

// SetBlocked marks dates unavailable. Dates covered by a live booking are
// rejected one by one rather than failing the whole request; already
// blocked dates count as applied.
func (c *Calendar) SetBlocked(ds []dates.Date, now time.Time) (applied, rejected []dates.Date) {
	for _, d := range ds {
		if _, booked := c.bookingOn(d); booked {
			rejected = append(rejected, d)
			continue
		}
		c.Blocked[d] = struct{}{}
		applied = append(applied, d)
	}
	if len(applied) > 0 {
		c.Record(DatesBlocked{ListingID: string(c.ListingID), Dates: applied, At: now.UTC()})
	}
	if len(rejected) > 0 {
		c.Record(BlockRejected{ListingID: string(c.ListingID), Dates: rejected, At: now.UTC()})
	}
	return applied, rejected
}

// ClearBlocked removes host blocks. Clearing a date that was never blocked
// is a no-op, not an error.
func (c *Calendar) ClearBlocked(ds []dates.Date, now time.Time) []dates.Date {
	var cleared []dates.Date
	for _, d := range ds {
		if _, ok := c.Blocked[d]; !ok {
			continue
		}
		delete(c.Blocked, d)
		cleared = append(cleared, d)
	}
	if len(cleared) > 0 {
		c.Record(DatesUnblocked{ListingID: string(c.ListingID), Dates: cleared, At: now.UTC()})
	}
	return cleared
}

// BlockedDates returns the host-blocked dates in ascending order.
func (c *Calendar) BlockedDates() []dates.Date {
	out := make([]dates.Date, 0, len(c.Blocked))
	for d := range c.Blocked {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

// AddPricingVariation stores an override after checking the range does not
// collide with an existing variation. Overlaps are rejected at creation so
// per-night resolution never has to pick between two overrides.
func (c *Calendar) AddPricingVariation(id VariationID, r dates.DateRange, price money.Money, reason string, now time.Time) (PricingVariation, error) {
	if err := r.Validate(); err != nil {
		return PricingVariation{}, err
	}
	if !price.IsPositive() {
		return PricingVariation{}, ErrNonPositivePrice
	}
	for _, v := range c.Variations {
		if v.Range.Overlaps(r) {
			return PricingVariation{}, ErrVariationOverlap
		}
	}
	variation := PricingVariation{ID: id, Range: r, Price: price, Reason: reason, CreatedAt: now.UTC()}
	c.Variations = append(c.Variations, variation)
	c.Record(VariationAdded{ListingID: string(c.ListingID), VariationID: string(id), Range: r, Price: price, At: now.UTC()})
	return variation, nil
}

func (c *Calendar) RemovePricingVariation(id VariationID, now time.Time) error {
	for i, v := range c.Variations {
		if v.ID != id {
			continue
		}
		c.Variations = append(c.Variations[:i], c.Variations[i+1:]...)
		c.Record(VariationRemoved{ListingID: string(c.ListingID), VariationID: string(id), At: now.UTC()})
		return nil
	}
	return ErrVariationNotFound
}

// Reserve records a booking block after a conflict check. Callers must hold
// the per-listing write lock so check and insert stay atomic.
func (c *Calendar) Reserve(r dates.DateRange, bookingID string, now time.Time) error {
	decision := CanBook(c, r)
	if !decision.Allowed {
		c.Record(OverbookingPrevented{ListingID: string(c.ListingID), Range: r, At: now.UTC()})
		if decision.Reason == ConflictBooked {
			return ErrRangeBooked
		}
		return ErrRangeBlocked
	}
	c.Bookings = append(c.Bookings, BookingBlock{Range: r, BookingID: bookingID, CreatedAt: now.UTC()})
	c.Record(RangeReserved{ListingID: string(c.ListingID), BookingID: bookingID, Range: r, At: now.UTC()})
	return nil
}

// Release removes the block held by a cancelled booking.
func (c *Calendar) Release(bookingID string, now time.Time) error {
	for i, b := range c.Bookings {
		if b.BookingID != bookingID {
			continue
		}
		removed := b
		c.Bookings = append(c.Bookings[:i], c.Bookings[i+1:]...)
		c.Record(RangeReleased{ListingID: string(c.ListingID), BookingID: bookingID, Range: removed.Range, At: now.UTC()})
		return nil
	}
	return ErrBookingNotFound
}

func (c *Calendar) bookingOn(d dates.Date) (string, bool) {
	for _, b := range c.Bookings {
		if b.Range.ContainsDate(d) {
			return b.BookingID, true
		}
	}
	return "", false
}

func (c *Calendar) variationFor(d dates.Date) (PricingVariation, bool) {
	for _, v := range c.Variations {
		if v.Range.ContainsDate(d) {
			return v, true
		}
	}
	return PricingVariation{}, false
}

func sortDates(ds []dates.Date) {
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
}
