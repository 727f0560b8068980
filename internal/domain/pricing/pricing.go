package pricing

import (
	"errors"

	"roamstay/internal/domain/availability"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

var (
	ErrNoNights      = errors.New("pricing: stay must cover at least one night")
	ErrInvalidGuests = errors.New("pricing: guests count must be positive")
	ErrBasePrice     = errors.New("pricing: base price must be positive")
)

// FeeSchedule holds the platform-wide fee knobs. Percentages are fractions
// (0.10 means 10%), monetary fields are flat amounts in the listing's
// currency.
type FeeSchedule struct {
	CleaningFeePercent    float64
	MinCleaningFee        money.Money
	BaseOccupancy         int
	PerExtraGuestPerNight money.Money
	ServiceFeePercent     float64
}

// DefaultFees matches the marketplace defaults.
func DefaultFees() FeeSchedule {
	return FeeSchedule{
		CleaningFeePercent:    0.10,
		MinCleaningFee:        money.Must(500, "INR"),
		BaseOccupancy:         2,
		PerExtraGuestPerNight: money.Must(300, "INR"),
		ServiceFeePercent:     0.05,
	}
}

// Quote is the full price breakdown for a candidate booking.
type Quote struct {
	Nights        int         `json:"nights" bson:"nights"`
	Subtotal      money.Money `json:"subtotal" bson:"subtotal"`
	CleaningFee   money.Money `json:"cleaning_fee" bson:"cleaning_fee"`
	ExtraGuestFee money.Money `json:"extra_guest_fee" bson:"extra_guest_fee"`
	ServiceFee    money.Money `json:"service_fee" bson:"service_fee"`
	Total         money.Money `json:"total" bson:"total"`
}

// ComputeTotal prices a stay night by night: each night uses the covering
// pricing variation's price when one exists, the base price otherwise.
// Each fee is rounded to the nearest whole unit before summing; the total
// is the plain sum and is not rounded again.
func (s FeeSchedule) ComputeTotal(base money.Money, r dates.DateRange, guests int, variations []availability.PricingVariation) (Quote, error) {
	if err := r.Validate(); err != nil {
		return Quote{}, ErrNoNights
	}
	if guests <= 0 {
		return Quote{}, ErrInvalidGuests
	}
	if !base.IsPositive() {
		return Quote{}, ErrBasePrice
	}

	nights := r.Nights()
	subtotal := money.Money{Currency: base.Currency}
	for d := r.Start; d < r.End; d++ {
		night := base
		for _, v := range variations {
			if v.Range.ContainsDate(d) {
				night = v.Price
				break
			}
		}
		subtotal.Amount += night.Amount
	}

	cleaning, err := base.Scale(s.CleaningFeePercent).Max(s.MinCleaningFee)
	if err != nil {
		return Quote{}, err
	}

	extraGuests := guests - s.BaseOccupancy
	if extraGuests < 0 {
		extraGuests = 0
	}
	extraFee := s.PerExtraGuestPerNight.Multiply(int64(extraGuests) * int64(nights))
	if extraFee.Currency == "" {
		extraFee.Currency = base.Currency
	}

	feeBase := subtotal.Amount + cleaning.Amount + extraFee.Amount
	service := money.Money{Amount: feeBase, Currency: base.Currency}.Scale(s.ServiceFeePercent)

	return Quote{
		Nights:        nights,
		Subtotal:      subtotal,
		CleaningFee:   cleaning,
		ExtraGuestFee: extraFee,
		ServiceFee:    service,
		Total:         money.Money{Amount: subtotal.Amount + cleaning.Amount + extraFee.Amount + service.Amount, Currency: base.Currency},
	}, nil
}
