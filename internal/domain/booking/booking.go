package booking

import (
	"context"
	"errors"
	"time"

	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/events"
)

var (
	ErrInvalidGuests   = errors.New("booking: guests count must be positive")
	ErrTooManyGuests   = errors.New("booking: guests exceed the listing limit")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrBookingNotFound = errors.New("booking: not found")
	ErrStartInPast     = errors.New("booking: start date is in the past")
)

type BookingID string

type BookingState string

const (
	StateCreated   BookingState = "CREATED"
	StatePaid      BookingState = "PAID"
	StateCancelled BookingState = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Booking struct {
	ID          BookingID
	ListingID   listings.ListingID
	GuestID     string
	Range       dates.DateRange
	Guests      int
	Quote       pricing.Quote
	State       BookingState
	Payment     PaymentStatus
	CheckoutRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	ListingID listings.ListingID
	GuestID   string
	Range     dates.DateRange
	Guests    int
	Quote     pricing.Quote
	CreatedAt time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if !params.Quote.Total.IsPositive() {
		return nil, errors.New("booking: total must be positive")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		Quote:     params.Quote,
		State:     StateCreated,
		Payment:   PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingCreated{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, Guests: b.Guests, Total: b.Quote.Total, At: now})
	return b, nil
}

// ValidateStart rejects ranges whose first night is before today.
func ValidateStart(r dates.DateRange, now time.Time) error {
	if r.Start.Before(dates.FromTime(now)) {
		return ErrStartInPast
	}
	return nil
}

// MarkPaid records payment confirmation from the checkout collaborator.
func (b *Booking) MarkPaid(checkoutRef string, now time.Time) error {
	if b.State != StateCreated {
		return ErrInvalidState
	}
	b.State = StatePaid
	b.Payment = PaymentPaid
	b.CheckoutRef = checkoutRef
	b.UpdatedAt = now.UTC()
	b.Record(BookingPaid{BookingID: b.ID, ListingID: b.ListingID, CheckoutRef: checkoutRef, At: b.UpdatedAt})
	return nil
}

// MarkPaymentFailed keeps the booking alive so the guest can retry checkout.
func (b *Booking) MarkPaymentFailed(now time.Time) error {
	if b.State != StateCreated {
		return ErrInvalidState
	}
	b.Payment = PaymentFailed
	b.UpdatedAt = now.UTC()
	b.Record(BookingPaymentFailed{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.State == StateCancelled {
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// IsActive reports whether the booking still occupies calendar dates.
func (b *Booking) IsActive() bool {
	return b.State != StateCancelled
}
