package dto

import (
	"time"

	"roamstay/internal/domain/booking"
	"roamstay/internal/domain/pricing"
)

type Quote struct {
	Nights        int      `json:"nights"`
	Subtotal      MoneyDTO `json:"subtotal"`
	CleaningFee   MoneyDTO `json:"cleaning_fee"`
	ExtraGuestFee MoneyDTO `json:"extra_guest_fee"`
	ServiceFee    MoneyDTO `json:"service_fee"`
	Total         MoneyDTO `json:"total"`
}

func MapQuote(q pricing.Quote) Quote {
	return Quote{
		Nights:        q.Nights,
		Subtotal:      MapMoney(q.Subtotal),
		CleaningFee:   MapMoney(q.CleaningFee),
		ExtraGuestFee: MapMoney(q.ExtraGuestFee),
		ServiceFee:    MapMoney(q.ServiceFee),
		Total:         MapMoney(q.Total),
	}
}

type Booking struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	GuestID     string    `json:"guest_id"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Guests      int       `json:"guests"`
	State       string    `json:"state"`
	Payment     string    `json:"payment_status"`
	Quote       Quote     `json:"quote"`
	CheckoutRef string    `json:"checkout_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func MapBooking(b *booking.Booking) Booking {
	return Booking{
		ID:          string(b.ID),
		ListingID:   string(b.ListingID),
		GuestID:     string(b.GuestID),
		CheckIn:     b.Range.Start.String(),
		CheckOut:    b.Range.End.String(),
		Guests:      b.Guests,
		State:       string(b.State),
		Payment:     string(b.Payment),
		Quote:       MapQuote(b.Quote),
		CheckoutRef: b.CheckoutRef,
		CreatedAt:   b.CreatedAt,
	}
}

type CheckoutSession struct {
	BookingID   string `json:"booking_id"`
	CheckoutID  string `json:"checkout_id"`
	CheckoutURL string `json:"checkout_url"`
	Total       Quote  `json:"quote"`
}
