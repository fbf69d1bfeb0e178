package handlers

import (
	"net/http"
	"time"

	"tutorly/middleware"
	"tutorly/models"
	"tutorly/services/availability"
	"tutorly/services/scheduling"
	"tutorly/services/tasks"
	"tutorly/utils"

	sessionRepo "tutorly/database/repository/session"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking ledger.
type BookingHandler struct {
	Ledger       *scheduling.BookingLedger
	Sessions     sessionRepo.SessionRepository
	Availability availability.AvailabilityService
	Queue        *asynq.Client
}

func NewBookingHandler(ledger *scheduling.BookingLedger, sessions sessionRepo.SessionRepository, availabilitySvc availability.AvailabilityService, queue *asynq.Client) *BookingHandler {
	return &BookingHandler{
		Ledger:       ledger,
		Sessions:     sessions,
		Availability: availabilitySvc,
		Queue:        queue,
	}
}

// CreateBooking commits a recurring booking draft. A conflict comes back as
// 409 with the colliding slots so the client can re-pick.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var draft models.RecurringBookingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	draft.ClientRef = middleware.ActorID(c)

	booking, sessions, err := h.Ledger.Commit(c.Request.Context(), draft)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	h.Availability.InvalidateOpenSlots(c.Request.Context(), booking.ProviderID)
	h.enqueueNotifications(booking, sessions)

	c.JSON(http.StatusCreated, gin.H{
		"booking":  booking,
		"sessions": sessions,
	})
}

// CancelBooking soft-closes a booking and frees its slots.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingID")

	booking, err := h.Ledger.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	actor := middleware.ActorID(c)
	if actor != booking.ProviderID && actor != booking.ClientRef {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "not a party to this booking")
		return
	}

	if err := h.Ledger.Cancel(c.Request.Context(), bookingID); err != nil {
		respondSchedulingError(c, err)
		return
	}
	h.Availability.InvalidateOpenSlots(c.Request.Context(), booking.ProviderID)
	c.JSON(http.StatusOK, gin.H{"status": models.BookingStatusCancelled})
}

// ListSessions returns the generated instances of a booking, optionally
// projected into the viewer's timezone.
func (h *BookingHandler) ListSessions(c *gin.Context) {
	bookingID := c.Param("bookingID")

	booking, err := h.Ledger.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	sessions, err := h.Sessions.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	viewerTz := c.Query("tz")
	if viewerTz == "" {
		c.JSON(http.StatusOK, gin.H{"booking": booking, "sessions": sessions})
		return
	}

	stored, err := h.Availability.GetWeeklyAvailability(c.Request.Context(), booking.ProviderID)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	type projectedSession struct {
		models.SessionInstance
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	}
	out := make([]projectedSession, 0, len(sessions))
	for _, s := range sessions {
		date, minutes, _, err := scheduling.ProjectSession(s, stored.Timezone, viewerTz)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid timezone", err.Error())
			return
		}
		out = append(out, projectedSession{
			SessionInstance: s,
			LocalDate:       date,
			LocalTime:       utils.MinutesToClock(minutes),
		})
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "sessions": out, "timezone": viewerTz})
}

// enqueueNotifications hands the committed booking to the notification queue
// and schedules a reminder the day before each session. Queue failures are
// logged, not surfaced; the booking is already committed.
func (h *BookingHandler) enqueueNotifications(booking *models.RecurringBooking, sessions []models.SessionInstance) {
	if h.Queue == nil {
		return
	}
	logger := utils.GetLogger()

	task, err := tasks.NewBookingConfirmationTask(models.BookingConfirmationPayload{
		Booking:  *booking,
		Sessions: sessions,
	})
	if err == nil {
		_, err = h.Queue.Enqueue(task)
	}
	if err != nil {
		logger.Warn("failed to enqueue booking confirmation",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	for _, s := range sessions {
		date, parseErr := utils.ParseDate(s.Date)
		if parseErr != nil {
			continue
		}
		fireAt := date.Add(time.Duration(s.Time)*time.Minute - 24*time.Hour)
		if fireAt.Before(time.Now()) {
			continue
		}
		task, opts, err := tasks.NewSessionReminderTask(models.SessionReminderPayload{
			SessionID:  s.ID,
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			ClientRef:  booking.ClientRef,
			Date:       s.Date,
			Time:       s.Time,
		}, fireAt)
		if err == nil {
			_, err = h.Queue.Enqueue(task, opts...)
		}
		if err != nil {
			logger.Warn("failed to enqueue session reminder",
				zap.String("sessionId", s.ID), zap.Error(err))
		}
	}
}
