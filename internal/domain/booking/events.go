package booking

import (
	"time"

	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

type BookingCreated struct {
	BookingID BookingID
	ListingID listings.ListingID
	GuestID   string
	Range     dates.DateRange
	Guests    int
	Total     money.Money
	At        time.Time
}

func (e BookingCreated) EventName() string     { return "booking.created" }
func (e BookingCreated) AggregateID() string   { return string(e.BookingID) }
func (e BookingCreated) OccurredAt() time.Time { return e.At }

type BookingPaid struct {
	BookingID   BookingID
	ListingID   listings.ListingID
	CheckoutRef string
	At          time.Time
}

func (e BookingPaid) EventName() string     { return "booking.paid" }
func (e BookingPaid) AggregateID() string   { return string(e.BookingID) }
func (e BookingPaid) OccurredAt() time.Time { return e.At }

type BookingPaymentFailed struct {
	BookingID BookingID
	ListingID listings.ListingID
	At        time.Time
}

func (e BookingPaymentFailed) EventName() string     { return "booking.payment_failed" }
func (e BookingPaymentFailed) AggregateID() string   { return string(e.BookingID) }
func (e BookingPaymentFailed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	ListingID listings.ListingID
	Reason    string
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
