package dto

import (
	"roamstay/internal/domain/availability"
	"roamstay/internal/domain/listings"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

// CalendarDay is the resolved view of one day for the host calendar UI.
type CalendarDay struct {
	Date      dates.Date `json:"date"`
	Status    string     `json:"status"`
	Priced    bool       `json:"priced"`
	Price     MoneyDTO   `json:"price"`
	BookingID string     `json:"booking_id,omitempty"`
}

type Calendar struct {
	ListingID string        `json:"listing_id"`
	From      dates.Date    `json:"from"`
	To        dates.Date    `json:"to"`
	Days      []CalendarDay `json:"days"`
}

// MapCalendar resolves every day in [from, to) against the calendar.
func MapCalendar(cal *availability.Calendar, listing *listings.Listing, window dates.DateRange) Calendar {
	out := Calendar{
		ListingID: string(cal.ListingID),
		From:      window.Start,
		To:        window.End,
		Days:      make([]CalendarDay, 0, window.Nights()),
	}
	for d := window.Start; d < window.End; d++ {
		status := cal.Status(d, listing.NightlyRate)
		out.Days = append(out.Days, CalendarDay{
			Date:      d,
			Status:    string(status.State),
			Priced:    status.Priced,
			Price:     MapMoney(status.Price),
			BookingID: status.BookingID,
		})
	}
	return out
}

type PricingVariation struct {
	ID        string     `json:"id"`
	StartDate dates.Date `json:"start_date"`
	EndDate   dates.Date `json:"end_date"`
	Price     MoneyDTO   `json:"price"`
	Reason    string     `json:"reason,omitempty"`
}

type PricingVariationCollection struct {
	Items []PricingVariation `json:"items"`
}

func MapPricingVariations(variations []availability.PricingVariation) PricingVariationCollection {
	out := PricingVariationCollection{Items: make([]PricingVariation, 0, len(variations))}
	for _, v := range variations {
		out.Items = append(out.Items, PricingVariation{
			ID:        string(v.ID),
			StartDate: v.Range.Start,
			EndDate:   v.Range.End,
			Price:     MapMoney(v.Price),
			Reason:    v.Reason,
		})
	}
	return out
}
