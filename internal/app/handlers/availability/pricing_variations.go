package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	"roamstay/internal/app/handlers/support"
	"roamstay/internal/app/middleware"
	"roamstay/internal/app/queries"
	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

const (
	addVariationKey    = "availability.add_pricing_variation"
	removeVariationKey = "availability.remove_pricing_variation"
	listVariationsKey  = "availability.list_pricing_variations"
)

type AddPricingVariationCommand struct {
	ListingID string
	HostID    string
	StartDate dates.Date
	EndDate   dates.Date
	Price     money.Money
	Reason    string
}

func (c AddPricingVariationCommand) Key() string        { return addVariationKey }
func (c AddPricingVariationCommand) ListingKey() string { return c.ListingID }

type AddPricingVariationHandler struct {
	UoWFactory uow.Factory
}

func (h *AddPricingVariationHandler) Handle(ctx context.Context, cmd AddPricingVariationCommand) (*dto.PricingVariation, error) {
	rng, err := dates.NewRange(cmd.StartDate, cmd.EndDate)
	if err != nil {
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

	listingID := domainlistings.ListingID(cmd.ListingID)
	if _, err := support.OwnedListing(ctx, unit, listingID, domainlistings.HostID(cmd.HostID)); err != nil {
		return nil, err
	}
	cal, err := support.CalendarFor(ctx, unit, listingID)
	if err != nil {
		return nil, err
	}

	id := domainavailability.VariationID(uuid.NewString())
	variation, err := cal.AddPricingVariation(id, rng, cmd.Price, cmd.Reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := unit.Availability().Save(ctx, cal); err != nil {
		return nil, err
	}
	support.DrainEvents(ctx, cal)

	if cleanup != nil {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	mapped := dto.MapPricingVariations([]domainavailability.PricingVariation{variation})
	return &mapped.Items[0], nil
}

type RemovePricingVariationCommand struct {
	ListingID   string
	HostID      string
	VariationID string
}

func (c RemovePricingVariationCommand) Key() string        { return removeVariationKey }
func (c RemovePricingVariationCommand) ListingKey() string { return c.ListingID }

type RemovePricingVariationResult struct {
	Removed string `json:"removed"`
}

type RemovePricingVariationHandler struct {
	UoWFactory uow.Factory
}

func (h *RemovePricingVariationHandler) Handle(ctx context.Context, cmd RemovePricingVariationCommand) (*RemovePricingVariationResult, error) {
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

	listingID := domainlistings.ListingID(cmd.ListingID)
	if _, err := support.OwnedListing(ctx, unit, listingID, domainlistings.HostID(cmd.HostID)); err != nil {
		return nil, err
	}
	cal, err := unit.Availability().Calendar(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := cal.RemovePricingVariation(domainavailability.VariationID(cmd.VariationID), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := unit.Availability().Save(ctx, cal); err != nil {
		return nil, err
	}
	support.DrainEvents(ctx, cal)

	if cleanup != nil {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &RemovePricingVariationResult{Removed: cmd.VariationID}, nil
}

type ListPricingVariationsQuery struct {
	ListingID string
	HostID    string
}

func (q ListPricingVariationsQuery) Key() string { return listVariationsKey }

type ListPricingVariationsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListPricingVariationsHandler) Handle(ctx context.Context, q ListPricingVariationsQuery) (*dto.PricingVariationCollection, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	if _, err := support.OwnedListing(ctx, unit, listingID, domainlistings.HostID(q.HostID)); err != nil {
		return nil, err
	}
	cal, err := support.CalendarFor(ctx, unit, listingID)
	if err != nil {
		return nil, err
	}

	mapped := dto.MapPricingVariations(cal.Variations)
	return &mapped, nil
}

var _ commands.Handler[AddPricingVariationCommand, *dto.PricingVariation] = (*AddPricingVariationHandler)(nil)
var _ commands.Handler[RemovePricingVariationCommand, *RemovePricingVariationResult] = (*RemovePricingVariationHandler)(nil)
var _ queries.Handler[ListPricingVariationsQuery, *dto.PricingVariationCollection] = (*ListPricingVariationsHandler)(nil)
var _ middleware.ListingScoped = AddPricingVariationCommand{}
var _ middleware.ListingScoped = RemovePricingVariationCommand{}
