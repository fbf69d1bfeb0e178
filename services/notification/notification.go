package notification

import (
	"context"
	"fmt"

	"tutorly/models"
	"tutorly/utils"

	"go.uber.org/zap"
)

// Sender delivers one formatted message to one recipient. Implementations
// live outside the core (email gateway, push service).
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// DefaultNotificationService formats scheduling events and hands them to a
// Sender.
type DefaultNotificationService struct {
	Sender Sender
	Logger *zap.Logger
}

func (svc *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, payload models.BookingConfirmationPayload) error {
	b := payload.Booking
	subject := fmt.Sprintf("Booking confirmed: %d sessions starting %s", b.TotalSessions, b.StartDate)

	body := fmt.Sprintf("Your recurring booking %s is confirmed.\nWeekly times:\n", b.ID)
	for _, s := range b.Slots {
		body += fmt.Sprintf("  %s at %s\n", s.Day, utils.MinutesToClock(s.Time))
	}
	if len(payload.Sessions) > 0 {
		body += fmt.Sprintf("First session: %s at %s\n",
			payload.Sessions[0].Date, utils.MinutesToClock(payload.Sessions[0].Time))
	}

	if err := svc.Sender.Send(ctx, b.ClientRef, subject, body); err != nil {
		return fmt.Errorf("failed to deliver booking confirmation: %w", err)
	}
	svc.Logger.Info("booking confirmation sent",
		zap.String("bookingId", b.ID), zap.String("clientRef", b.ClientRef))
	return nil
}

func (svc *DefaultNotificationService) SendSessionReminder(ctx context.Context, payload models.SessionReminderPayload) error {
	subject := fmt.Sprintf("Upcoming session on %s", payload.Date)
	body := fmt.Sprintf("Reminder: your session is on %s at %s.",
		payload.Date, utils.MinutesToClock(payload.Time))

	if err := svc.Sender.Send(ctx, payload.ClientRef, subject, body); err != nil {
		return fmt.Errorf("failed to deliver session reminder: %w", err)
	}
	svc.Logger.Info("session reminder sent",
		zap.String("sessionId", payload.SessionID), zap.String("clientRef", payload.ClientRef))
	return nil
}

// LogSender is the development fallback when no delivery transport is wired.
type LogSender struct {
	Logger *zap.Logger
}

func (ls *LogSender) Send(_ context.Context, recipient, subject, body string) error {
	ls.Logger.Info("notification (log only)",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
