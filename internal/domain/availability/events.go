package availability

import (
	"time"

	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

type DatesBlocked struct {
	ListingID string
	Dates     []dates.Date
	At        time.Time
}

func (e DatesBlocked) EventName() string     { return "calendar.blocked" }
func (e DatesBlocked) AggregateID() string   { return e.ListingID }
func (e DatesBlocked) OccurredAt() time.Time { return e.At }

type DatesUnblocked struct {
	ListingID string
	Dates     []dates.Date
	At        time.Time
}

func (e DatesUnblocked) EventName() string     { return "calendar.unblocked" }
func (e DatesUnblocked) AggregateID() string   { return e.ListingID }
func (e DatesUnblocked) OccurredAt() time.Time { return e.At }

// BlockRejected records the dates a host tried to block that were covered
// by live bookings.
type BlockRejected struct {
	ListingID string
	Dates     []dates.Date
	At        time.Time
}

func (e BlockRejected) EventName() string     { return "calendar.block_rejected" }
func (e BlockRejected) AggregateID() string   { return e.ListingID }
func (e BlockRejected) OccurredAt() time.Time { return e.At }

type RangeReserved struct {
	ListingID string
	BookingID string
	Range     dates.DateRange
	At        time.Time
}

func (e RangeReserved) EventName() string     { return "calendar.reserved" }
func (e RangeReserved) AggregateID() string   { return e.ListingID }
func (e RangeReserved) OccurredAt() time.Time { return e.At }

type RangeReleased struct {
	ListingID string
	BookingID string
	Range     dates.DateRange
	At        time.Time
}

func (e RangeReleased) EventName() string     { return "calendar.released" }
func (e RangeReleased) AggregateID() string   { return e.ListingID }
func (e RangeReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	ListingID string
	Range     dates.DateRange
	At        time.Time
}

func (e OverbookingPrevented) EventName() string     { return "calendar.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return e.ListingID }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }

type VariationAdded struct {
	ListingID   string
	VariationID string
	Range       dates.DateRange
	Price       money.Money
	At          time.Time
}

func (e VariationAdded) EventName() string     { return "calendar.variation_added" }
func (e VariationAdded) AggregateID() string   { return e.ListingID }
func (e VariationAdded) OccurredAt() time.Time { return e.At }

type VariationRemoved struct {
	ListingID   string
	VariationID string
	At          time.Time
}

func (e VariationRemoved) EventName() string     { return "calendar.variation_removed" }
func (e VariationRemoved) AggregateID() string   { return e.ListingID }
func (e VariationRemoved) OccurredAt() time.Time { return e.At }
