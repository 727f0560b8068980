package booking

import (
	"context"
	"time"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/uow"
	domainbooking "roamstay/internal/domain/booking"
)

const confirmPaymentKey = "booking.confirm_payment"

type ConfirmPaymentCommand struct {
	BookingID   string
	CheckoutRef string
	Succeeded   bool
}

func (c ConfirmPaymentCommand) Key() string { return confirmPaymentKey }

// ConfirmPaymentHandler records the payment outcome reported by the
// checkout collaborator. A failed payment keeps the booking retryable and
// its calendar reservation in place.
type ConfirmPaymentHandler struct {
	UoWFactory uow.Factory
}

func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*dto.Booking, error) {
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

	now := time.Now().UTC()
	if cmd.Succeeded {
		err = booking.MarkPaid(cmd.CheckoutRef, now)
	} else {
		err = booking.MarkPaymentFailed(now)
	}
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	support.DrainEvents(ctx, booking)

	if cleanup != nil {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	mapped := dto.MapBooking(booking)
	return &mapped, nil
}

var _ commands.Handler[ConfirmPaymentCommand, *dto.Booking] = (*ConfirmPaymentHandler)(nil)
