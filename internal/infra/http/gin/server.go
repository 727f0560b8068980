package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roamstay/internal/infra/config"
	"roamstay/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Calendar(c *gin.Context)
	SetBlocked(c *gin.Context)
	ClearBlocked(c *gin.Context)
	ApplyRecurring(c *gin.Context)
	AddPricingVariation(c *gin.Context)
	RemovePricingVariation(c *gin.Context)
	ListPricingVariations(c *gin.Context)
	Analytics(c *gin.Context)
}

type BookingHTTP interface {
	CreateCheckoutSession(c *gin.Context)
	ConfirmPayment(c *gin.Context)
	Cancel(c *gin.Context)
	MyBookings(c *gin.Context)
}

type Handlers struct {
	Availability AvailabilityHTTP
	Booking      BookingHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Roles"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.Use(IdentityMiddleware())

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		listingGroup := api.Group("/listings/:id/availability")
		listingGroup.GET("", h.Availability.Calendar)
		listingGroup.POST("", h.Availability.SetBlocked)
		listingGroup.PUT("", h.Availability.SetBlocked)
		listingGroup.DELETE("", h.Availability.ClearBlocked)
		listingGroup.GET("/analytics", h.Availability.Analytics)
		listingGroup.POST("/recurring-blocks", h.Availability.ApplyRecurring)
		listingGroup.GET("/pricing-variations", h.Availability.ListPricingVariations)
		listingGroup.POST("/pricing-variations", h.Availability.AddPricingVariation)
		listingGroup.DELETE("/pricing-variations/:variationId", h.Availability.RemovePricingVariation)
	}
	if h.Booking != nil {
		api.POST("/bookings/create-checkout-session", h.Booking.CreateCheckoutSession)
		api.POST("/bookings/:id/payment", h.Booking.ConfirmPayment)
		api.POST("/bookings/:id/cancel", h.Booking.Cancel)
		api.GET("/me/bookings", h.Booking.MyBookings)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var _ AvailabilityHTTP = AvailabilityHandler{}
var _ BookingHTTP = BookingHandler{}
