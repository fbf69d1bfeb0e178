package models

// BookingConfirmationPayload is handed to the notification collaborator once
// a booking has been committed. The core guarantees the data is complete and
// already validated; formatting and delivery happen downstream.
type BookingConfirmationPayload struct {
	Booking  RecurringBooking  `json:"booking"`
	Sessions []SessionInstance `json:"sessions"`
}

// SessionReminderPayload schedules a reminder ahead of a single session.
type SessionReminderPayload struct {
	SessionID  string `json:"sessionId"`
	BookingID  string `json:"bookingId"`
	ProviderID string `json:"providerId"`
	ClientRef  string `json:"clientRef"`
	Date       string `json:"date"`
	Time       int    `json:"time"`
}
