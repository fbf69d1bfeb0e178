package handlers

import (
	"net/http"

	"tutorly/middleware"
	"tutorly/services/availability"
	"tutorly/services/scheduling"
	"tutorly/utils"

	"github.com/gin-gonic/gin"
)

// RescheduleHandler exposes the reschedule request state machine.
type RescheduleHandler struct {
	Workflow     *scheduling.RescheduleWorkflow
	Availability availability.AvailabilityService
}

func NewRescheduleHandler(workflow *scheduling.RescheduleWorkflow, availabilitySvc availability.AvailabilityService) *RescheduleHandler {
	return &RescheduleHandler{Workflow: workflow, Availability: availabilitySvc}
}

// CreateRequest opens a pending reschedule request against a booking or one
// of its session instances.
func (h *RescheduleHandler) CreateRequest(c *gin.Context) {
	var params scheduling.CreateRescheduleParams
	if err := c.ShouldBindJSON(&params); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	params.RequestedBy = middleware.ActorID(c)

	request, err := h.Workflow.Create(c.Request.Context(), params)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// AcceptRequest applies a pending request as the counterparty.
func (h *RescheduleHandler) AcceptRequest(c *gin.Context) {
	requestID := c.Param("requestID")
	var input struct {
		ResponseNote string `json:"responseNote"`
	}
	// The note is optional; an empty body is fine.
	_ = c.ShouldBindJSON(&input)

	request, err := h.Workflow.Accept(c.Request.Context(), requestID, middleware.ActorID(c), input.ResponseNote)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	if booking, bErr := h.Workflow.Bookings.GetByID(c.Request.Context(), request.RecurringBookingID); bErr == nil {
		h.Availability.InvalidateOpenSlots(c.Request.Context(), booking.ProviderID)
	}
	c.JSON(http.StatusOK, request)
}

// DeclineRequest resolves a pending request without touching the schedule.
func (h *RescheduleHandler) DeclineRequest(c *gin.Context) {
	requestID := c.Param("requestID")
	var input struct {
		ResponseNote string `json:"responseNote"`
	}
	_ = c.ShouldBindJSON(&input)

	request, err := h.Workflow.Decline(c.Request.Context(), requestID, middleware.ActorID(c), input.ResponseNote)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
