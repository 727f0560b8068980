package analytics

import (
	"errors"

	"roamstay/internal/domain/availability"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

var ErrInvalidWindow = errors.New("analytics: window must cover at least one day")

// Report summarizes calendar utilisation over a trailing window. It is
// derived state: computing a report never mutates the calendar.
type Report struct {
	WindowDays       int
	BlockedDays      int
	BookedDays       int
	AvailableDays    int
	OccupancyRate    float64
	EstimatedLoss    money.Money
	ProjectedRevenue money.Money
}

// Compute walks the trailing window [today-windowDays, today). Blocked days
// accrue an estimated loss of one base-price night; booked days accrue the
// price actually charged for that night, pricing variations included.
func Compute(cal *availability.Calendar, base money.Money, today dates.Date, windowDays int) (Report, error) {
	if windowDays <= 0 {
		return Report{}, ErrInvalidWindow
	}

	report := Report{
		WindowDays:       windowDays,
		EstimatedLoss:    money.Money{Currency: base.Currency},
		ProjectedRevenue: money.Money{Currency: base.Currency},
	}
	for d := today.AddDays(-windowDays); d < today; d++ {
		status := cal.Status(d, base)
		switch status.State {
		case availability.DayBooked:
			report.BookedDays++
			report.ProjectedRevenue.Amount += cal.NightlyPrice(d, base).Amount
		case availability.DayBlocked:
			report.BlockedDays++
			report.EstimatedLoss.Amount += base.Amount
		}
	}
	report.AvailableDays = windowDays - report.BlockedDays - report.BookedDays
	report.OccupancyRate = float64(report.BlockedDays+report.BookedDays) / float64(windowDays)
	return report, nil
}
