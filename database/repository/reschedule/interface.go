package rescheduleRepo

import (
	"context"
	"errors"
	"time"

	"tutorly/models"
)

// ErrNotFound is returned when a reschedule request does not exist.
var ErrNotFound = errors.New("reschedule request not found")

// ErrAlreadyResolved is returned when a resolve hits a request that is no
// longer pending. The conditional update makes terminality atomic: two
// concurrent accepts cannot both win.
var ErrAlreadyResolved = errors.New("reschedule request already resolved")

// RescheduleRepository persists reschedule requests.
type RescheduleRepository interface {
	Insert(ctx context.Context, request *models.RescheduleRequest) error
	GetByID(ctx context.Context, requestID string) (*models.RescheduleRequest, error)
	CountPendingByBooking(ctx context.Context, bookingID string) (int, error)
	// Resolve flips a pending request to accepted or declined. Fails with
	// ErrAlreadyResolved if the request is already terminal.
	Resolve(ctx context.Context, requestID, status, responseNote, respondedBy string, respondedAt time.Time) error
	// Reopen reverts an accepted request back to pending. Used when the
	// schedule mutation behind an accept fails after the request was won.
	Reopen(ctx context.Context, requestID string) error
}
