package dto

import "roamstay/internal/domain/analytics"

type AnalyticsReport struct {
	WindowDays       int      `json:"window_days"`
	BlockedDays      int      `json:"blocked_days"`
	BookedDays       int      `json:"booked_days"`
	AvailableDays    int      `json:"available_days"`
	OccupancyRate    float64  `json:"occupancy_rate"`
	EstimatedLoss    MoneyDTO `json:"estimated_loss"`
	ProjectedRevenue MoneyDTO `json:"projected_revenue"`
}

func MapAnalytics(r analytics.Report) AnalyticsReport {
	return AnalyticsReport{
		WindowDays:       r.WindowDays,
		BlockedDays:      r.BlockedDays,
		BookedDays:       r.BookedDays,
		AvailableDays:    r.AvailableDays,
		OccupancyRate:    r.OccupancyRate,
		EstimatedLoss:    MapMoney(r.EstimatedLoss),
		ProjectedRevenue: MapMoney(r.ProjectedRevenue),
	}
}
