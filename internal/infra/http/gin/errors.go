package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roamstay/internal/app/uow"
	domainavailability "roamstay/internal/domain/availability"
	domainbooking "roamstay/internal/domain/booking"
	domainlistings "roamstay/internal/domain/listings"
	"roamstay/internal/domain/pricing"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

// respondError maps domain errors onto HTTP status codes with a uniform
// envelope.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainlistings.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, domainlistings.ErrListingNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainavailability.ErrVariationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainavailability.ErrRangeBooked),
		errors.Is(err, domainavailability.ErrRangeBlocked),
		errors.Is(err, domainavailability.ErrVariationOverlap),
		errors.Is(err, domainavailability.ErrVersionConflict),
		errors.Is(err, domainbooking.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, dates.ErrInvalidRange),
		errors.Is(err, dates.ErrBadFormat),
		errors.Is(err, domainavailability.ErrUnknownPatternType),
		errors.Is(err, domainavailability.ErrNoSelectors),
		errors.Is(err, domainavailability.ErrBadSelector),
		errors.Is(err, domainavailability.ErrNonPositivePrice),
		errors.Is(err, domainbooking.ErrStartInPast),
		errors.Is(err, domainbooking.ErrInvalidGuests),
		errors.Is(err, domainbooking.ErrTooManyGuests),
		errors.Is(err, domainlistings.ErrListingInactive),
		errors.Is(err, pricing.ErrNoNights),
		errors.Is(err, pricing.ErrInvalidGuests),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, uow.ErrUnitOfWorkMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
