package notification

import (
	"context"

	"tutorly/models"
)

// NotificationService receives committed, already-validated scheduling data
// and is responsible for formatting and delivery. Transport (email, push) is
// an external concern; the core only guarantees the payload is complete.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, payload models.BookingConfirmationPayload) error
	SendSessionReminder(ctx context.Context, payload models.SessionReminderPayload) error
}
