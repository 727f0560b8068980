package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/dto"
	availabilityapp "roamstay/internal/app/handlers/availability"
	"roamstay/internal/app/queries"
	domainavailability "roamstay/internal/domain/availability"
	"roamstay/internal/domain/shared/dates"
	"roamstay/internal/domain/shared/money"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Currency string
}

// Calendar serves the day-by-day availability view. Defaults to the next
// 90 days when no window is given.
func (h AvailabilityHandler) Calendar(c *gin.Context) {
	from, to, err := parseWindow(c, 90)
	if err != nil {
		respondError(c, err)
		return
	}
	q := availabilityapp.GetCalendarQuery{ListingID: c.Param("id"), From: from, To: to}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, *dto.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

type setBlockedRequest struct {
	Dates []dates.Date `json:"dates"`
	Mode  string       `json:"mode"`
}

func (h AvailabilityHandler) SetBlocked(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req setBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	mode := availabilityapp.ModeAugment
	if req.Mode == string(availabilityapp.ModeReplace) {
		mode = availabilityapp.ModeReplace
	}
	cmd := availabilityapp.SetBlockedCommand{
		ListingID: c.Param("id"),
		HostID:    user.ID,
		Dates:     req.Dates,
		Mode:      mode,
	}
	result, err := commands.Dispatch[availabilityapp.SetBlockedCommand, *availabilityapp.SetBlockedResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

type clearBlockedRequest struct {
	Dates []dates.Date `json:"dates"`
}

func (h AvailabilityHandler) ClearBlocked(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req clearBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	cmd := availabilityapp.ClearBlockedCommand{ListingID: c.Param("id"), HostID: user.ID, Dates: req.Dates}
	result, err := commands.Dispatch[availabilityapp.ClearBlockedCommand, *availabilityapp.ClearBlockedResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

type recurringRequest struct {
	Pattern     string     `json:"pattern"`
	Selectors   []int      `json:"selectors"`
	WindowStart dates.Date `json:"window_start"`
	WindowEnd   dates.Date `json:"window_end"`
}

func (h AvailabilityHandler) ApplyRecurring(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	cmd := availabilityapp.ApplyRecurringCommand{
		ListingID:   c.Param("id"),
		HostID:      user.ID,
		Pattern:     domainavailability.PatternType(req.Pattern),
		Selectors:   req.Selectors,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
	}
	result, err := commands.Dispatch[availabilityapp.ApplyRecurringCommand, *availabilityapp.ApplyRecurringResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

type addVariationRequest struct {
	StartDate dates.Date `json:"start_date"`
	EndDate   dates.Date `json:"end_date"`
	Price     int64      `json:"price"`
	Reason    string     `json:"reason"`
}

func (h AvailabilityHandler) AddPricingVariation(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req addVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	price, err := money.New(req.Price, h.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := availabilityapp.AddPricingVariationCommand{
		ListingID: c.Param("id"),
		HostID:    user.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Price:     price,
		Reason:    req.Reason,
	}
	result, err := commands.Dispatch[availabilityapp.AddPricingVariationCommand, *dto.PricingVariation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

func (h AvailabilityHandler) RemovePricingVariation(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	cmd := availabilityapp.RemovePricingVariationCommand{
		ListingID:   c.Param("id"),
		HostID:      user.ID,
		VariationID: c.Param("variationId"),
	}
	result, err := commands.Dispatch[availabilityapp.RemovePricingVariationCommand, *availabilityapp.RemovePricingVariationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h AvailabilityHandler) ListPricingVariations(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := availabilityapp.ListPricingVariationsQuery{ListingID: c.Param("id"), HostID: user.ID}
	result, err := queries.Ask[availabilityapp.ListPricingVariationsQuery, *dto.PricingVariationCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h AvailabilityHandler) Analytics(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	window := 0
	raw := c.Query("days")
	if raw == "" {
		raw = c.Query("window_days")
	}
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid days"})
			return
		}
		window = parsed
	}
	q := availabilityapp.GetAnalyticsQuery{ListingID: c.Param("id"), HostID: user.ID, WindowDays: window}
	result, err := queries.Ask[availabilityapp.GetAnalyticsQuery, *dto.AnalyticsReport](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// parseWindow reads from/to query params, falling back to a window of
// defaultDays starting today.
func parseWindow(c *gin.Context, defaultDays int) (dates.Date, dates.Date, error) {
	fromRaw := c.Query("from")
	toRaw := c.Query("to")
	if fromRaw == "" && toRaw == "" {
		today := dates.Today()
		return today, today.AddDays(defaultDays), nil
	}
	from, err := dates.Parse(fromRaw)
	if err != nil {
		return 0, 0, err
	}
	to, err := dates.Parse(toRaw)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
