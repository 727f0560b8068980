package booking

import (
	"context"

	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/queries"
	"roamstay/internal/app/uow"
)

const guestBookingsKey = "booking.guest_bookings"

type GuestBookingsQuery struct {
	GuestID string
}

func (q GuestBookingsQuery) Key() string { return guestBookingsKey }

type GuestBookingsResult struct {
	Items []dto.Booking `json:"items"`
}

type GuestBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *GuestBookingsHandler) Handle(ctx context.Context, q GuestBookingsQuery) (*GuestBookingsResult, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Bookings().ListByGuest(ctx, q.GuestID)
	if err != nil {
		return nil, err
	}
	out := &GuestBookingsResult{Items: make([]dto.Booking, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, dto.MapBooking(b))
	}
	return out, nil
}

var _ queries.Handler[GuestBookingsQuery, *GuestBookingsResult] = (*GuestBookingsHandler)(nil)
