package handlers

import (
	"net/http"
	"strconv"

	"tutorly/config"
	"tutorly/models"
	"tutorly/services/availability"
	"tutorly/services/scheduling"
	"tutorly/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler exposes a provider's weekly availability.
type AvailabilityHandler struct {
	Svc availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc}
}

// SetAvailability replaces the provider's weekly range set wholesale.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	providerID := c.Param("providerID")
	var input struct {
		Timezone string               `json:"timezone" binding:"required"`
		Ranges   []models.WeeklyRange `json:"ranges" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	stored, err := h.Svc.SetWeeklyAvailability(c.Request.Context(), providerID, input.Timezone, input.Ranges)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetAvailability returns the stored weekly ranges.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	providerID := c.Param("providerID")
	stored, err := h.Svc.GetWeeklyAvailability(c.Request.Context(), providerID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetOpenSlots expands the ranges into bookable slots and removes everything
// already committed. An optional tz query projects the result into the
// viewer's timezone for display; stored data stays in the provider's zone.
func (h *AvailabilityHandler) GetOpenSlots(c *gin.Context) {
	providerID := c.Param("providerID")

	duration := config.AppConfig.DefaultSessionMinutes
	if raw := c.Query("duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid duration", raw)
			return
		}
		duration = parsed
	}

	slots, err := h.Svc.GetOpenSlots(c.Request.Context(), providerID, duration)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	if viewerTz := c.Query("tz"); viewerTz != "" {
		stored, err := h.Svc.GetWeeklyAvailability(c.Request.Context(), providerID)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		projected := make([]models.BookableSlot, 0, len(slots))
		for _, s := range slots {
			p, err := scheduling.ProjectSlot(s, stored.Timezone, viewerTz)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "invalid timezone", err.Error())
				return
			}
			projected = append(projected, p)
		}
		c.JSON(http.StatusOK, gin.H{"slots": projected, "timezone": viewerTz})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
