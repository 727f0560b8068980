package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/policies"
	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/dates"
)

const createCheckoutKey = "booking.create_checkout"

type CreateCheckoutCommand struct {
	ListingID string
	GuestID   string
	CheckIn   dates.Date
	CheckOut  dates.Date
	Guests    int
}

func (c CreateCheckoutCommand) Key() string        { return createCheckoutKey }
func (c CreateCheckoutCommand) ListingKey() string { return c.ListingID }

// CreateCheckoutHandler creates a booking and its checkout session. The
// conflict check and the calendar reservation run inside the same
// listing-scoped dispatch, so two overlapping requests can never both
// pass the check.
type CreateCheckoutHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
	Fees       pricing.FeeSchedule
}

func (h *CreateCheckoutHandler) Handle(ctx context.Context, cmd CreateCheckoutCommand) (*dto.CheckoutSession, error) {
	stay, err := dates.NewRange(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateStart(stay, now); err != nil {
		return nil, err
	}

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

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if listing.State != domainlistings.ListingActive {
		return nil, domainlistings.ErrListingInactive
	}
	if listing.GuestsLimit > 0 && cmd.Guests > listing.GuestsLimit {
		return nil, domainbooking.ErrTooManyGuests
	}

	cal, err := support.CalendarFor(ctx, unit, listing.ID)
	if err != nil {
		return nil, err
	}
	if decision := domainavailability.CanBook(cal, stay); !decision.Allowed {
		if decision.Reason == domainavailability.ConflictBooked {
			return nil, domainavailability.ErrRangeBooked
		}
		return nil, domainavailability.ErrRangeBlocked
	}

	fees := h.Fees
	if listing.BaseOccupancy > 0 {
		fees.BaseOccupancy = listing.BaseOccupancy
	}
	quote, err := fees.ComputeTotal(listing.NightlyRate, stay, cmd.Guests, cal.Variations)
	if err != nil {
		return nil, err
	}

	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(uuid.NewString()),
		ListingID: listing.ID,
		GuestID:   cmd.GuestID,
		Range:     stay,
		Guests:    cmd.Guests,
		Quote:     quote,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := cal.Reserve(stay, string(booking.ID), now); err != nil {
		return nil, err
	}

	session, err := h.Payments.CreateCheckoutSession(ctx, string(booking.ID), quote.Total)
	if err != nil {
		return nil, err
	}
	booking.CheckoutRef = session.ID

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
	return &dto.CheckoutSession{
		BookingID:   string(booking.ID),
		CheckoutID:  session.ID,
		CheckoutURL: session.URL,
		Total:       dto.MapQuote(quote),
	}, nil
}

var _ commands.Handler[CreateCheckoutCommand, *dto.CheckoutSession] = (*CreateCheckoutHandler)(nil)
var _ middleware.ListingScoped = CreateCheckoutCommand{}
