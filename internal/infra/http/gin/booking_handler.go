package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	bookingapp "roamstay/internal/app/handlers/booking"
	"roamstay/internal/app/queries"
	"roamstay/internal/domain/shared/dates"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createCheckoutRequest struct {
	ListingID string     `json:"listing_id"`
	CheckIn   dates.Date `json:"check_in"`
	CheckOut  dates.Date `json:"check_out"`
	Guests    int        `json:"guests"`
}

func (h BookingHandler) CreateCheckoutSession(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	cmd := bookingapp.CreateCheckoutCommand{
		ListingID: req.ListingID,
		GuestID:   user.ID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
	}
	result, err := commands.Dispatch[bookingapp.CreateCheckoutCommand, *dto.CheckoutSession](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

type confirmPaymentRequest struct {
	CheckoutRef string `json:"checkout_ref"`
	Succeeded   bool   `json:"succeeded"`
}

// ConfirmPayment is the callback the payment gateway posts after a
// checkout session settles.
func (h BookingHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	cmd := bookingapp.ConfirmPaymentCommand{
		BookingID:   c.Param("id"),
		CheckoutRef: req.CheckoutRef,
		Succeeded:   req.Succeeded,
	}
	result, err := commands.Dispatch[bookingapp.ConfirmPaymentCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{
		BookingID: c.Param("id"),
		GuestID:   user.ID,
		Reason:    req.Reason,
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := bookingapp.GuestBookingsQuery{GuestID: user.ID}
	result, err := queries.Ask[bookingapp.GuestBookingsQuery, *bookingapp.GuestBookingsResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
