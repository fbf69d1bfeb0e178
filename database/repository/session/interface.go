package sessionRepo

import (
	"context"
	"errors"
	"time"

	"tutorly/models"
)

// ErrNotFound is returned when a session instance does not exist.
var ErrNotFound = errors.New("session instance not found")

// SessionRepository reads and mutates individual session instances. Bulk
// insertion happens inside the booking commit transaction and lives on the
// booking repository.
type SessionRepository interface {
	GetByID(ctx context.Context, sessionID string) (*models.SessionInstance, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.SessionInstance, error)
	// Reschedule moves one instance to a new date/day/time and marks it
	// rescheduled, without touching sibling instances.
	Reschedule(ctx context.Context, sessionID, date string, day time.Weekday, minutes int) error
	UpdateStatus(ctx context.Context, sessionID, status string) error
}
