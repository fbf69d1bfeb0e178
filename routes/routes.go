package routes

import (
	"net/http"

	"tutorly/handlers"
	"tutorly/middleware"
	"tutorly/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints of the scheduling engine.
func RegisterRoutes(
	r *gin.Engine,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	rescheduleHandler *handlers.RescheduleHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	api := r.Group("/api")
	api.Use(middleware.IdentityMiddleware())

	providers := api.Group("/providers/:providerID")
	{
		providers.PUT("/availability", availabilityHandler.SetAvailability)
		providers.GET("/availability", availabilityHandler.GetAvailability)
		providers.GET("/availability/slots", availabilityHandler.GetOpenSlots)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.DELETE("/:bookingID", bookingHandler.CancelBooking)
		bookings.GET("/:bookingID/sessions", bookingHandler.ListSessions)
	}

	reschedules := api.Group("/reschedules")
	{
		reschedules.POST("", rescheduleHandler.CreateRequest)
		reschedules.POST("/:requestID/accept", rescheduleHandler.AcceptRequest)
		reschedules.POST("/:requestID/decline", rescheduleHandler.DeclineRequest)
	}
}
