package editor

import (
	"context"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	availabilityapp "roamstay/internal/app/handlers/availability"
)

// CommandSaver builds a SaveFunc that persists an editor payload through
// the command bus: one replace-mode block write for the painted dates,
// then one command per staged price draft.
func CommandSaver(bus commands.Bus, hostID string) SaveFunc {
	return func(ctx context.Context, payload SavePayload) error {
		_, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](
			ctx, bus, availabilityapp.SetBlockedCommand{
				ListingID: payload.ListingID,
				HostID:    hostID,
				Dates:     payload.Blocked,
				Mode:      availabilityapp.ModeReplace,
			})
		if err != nil {
			return err
		}
		for _, draft := range payload.Drafts {
			if len(draft.Dates) == 0 {
				continue
			}
			_, err := commands.Dispatch[availabilityapp.AddPricingVariationCommand, *dto.PricingVariation](
				ctx, bus, availabilityapp.AddPricingVariationCommand{
					ListingID: payload.ListingID,
					HostID:    hostID,
					StartDate: draft.Dates[0],
					EndDate:   draft.Dates[len(draft.Dates)-1].AddDays(1),
					Price:     draft.Price,
					Reason:    draft.Reason,
				})
			if err != nil {
				return err
			}
		}
		return nil
	}
}
