package booking

import (
	"context"
	"errors"
	"time"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

var ErrNotBookingGuest = errors.New("booking: acting user is not the booking guest")

type CancelBookingCommand struct {
	BookingID string
	GuestID   string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

// CancelBookingHandler cancels a booking and releases its calendar block,
// so the freed dates are immediately bookable again.
type CancelBookingHandler struct {
	UoWFactory uow.Factory
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.Booking, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	committed := false
	if cleanup != nil {
		defer func() {
			if !committed {
				cleanup()
			}
		}()
	}

	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if cmd.GuestID != "" && booking.GuestID != cmd.GuestID {
		return nil, ErrNotBookingGuest
	}

	now := time.Now().UTC()
	if err := booking.Cancel(cmd.Reason, now); err != nil {
		return nil, err
	}

	cal, err := unit.Availability().Calendar(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if err := cal.Release(string(booking.ID), now); err != nil && !errors.Is(err, domainavailability.ErrBookingNotFound) {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := unit.Availability().Save(ctx, cal); err != nil {
		return nil, err
	}
	support.DrainEvents(ctx, booking, cal)

	if cleanup != nil {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	mapped := dto.MapBooking(booking)
	return &mapped, nil
}

var _ commands.Handler[CancelBookingCommand, *dto.Booking] = (*CancelBookingHandler)(nil)
