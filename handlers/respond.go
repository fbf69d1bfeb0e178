package handlers

import (
	"errors"
	"net/http"

	availabilityRepo "tutorly/database/repository/availability"
	bookingRepo "tutorly/database/repository/booking"
	rescheduleRepo "tutorly/database/repository/reschedule"
	sessionRepo "tutorly/database/repository/session"
	"tutorly/services/scheduling"
	"tutorly/utils"

	"github.com/gin-gonic/gin"
)

// respondSchedulingError translates core errors into HTTP responses.
// Conflicts are expected and user-facing: the colliding slots go back to the
// client so they can pick different times.
func respondSchedulingError(c *gin.Context, err error) {
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"message":          "requested time is no longer available",
			"conflictingSlots": conflict.ConflictingSlots,
		})
		return
	}

	var invalidRange *scheduling.InvalidRangeError
	var emptySchedule *scheduling.EmptyScheduleError
	var horizon *scheduling.ScheduleHorizonExceededError
	if errors.As(err, &invalidRange) || errors.As(err, &emptySchedule) || errors.As(err, &horizon) {
		utils.JSONError(c, http.StatusUnprocessableEntity, "schedule configuration error", err.Error())
		return
	}

	var limit *scheduling.RescheduleLimitExceededError
	if errors.As(err, &limit) {
		utils.JSONError(c, http.StatusConflict, "too many pending reschedule requests", err.Error())
		return
	}

	var transition *scheduling.InvalidStateTransitionError
	if errors.As(err, &transition) {
		utils.JSONError(c, http.StatusConflict, "request already resolved", err.Error())
		return
	}

	var validation *scheduling.ValidationError
	if errors.As(err, &validation) {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if errors.Is(err, scheduling.ErrNotCounterparty) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", err.Error())
		return
	}

	if errors.Is(err, bookingRepo.ErrNotFound) ||
		errors.Is(err, sessionRepo.ErrNotFound) ||
		errors.Is(err, rescheduleRepo.ErrNotFound) ||
		errors.Is(err, availabilityRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
