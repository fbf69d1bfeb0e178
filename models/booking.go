package models

import "time"

// RecurringBooking statuses.
const (
	BookingStatusPending     = "pending"
	BookingStatusConfirmed   = "confirmed"
	BookingStatusRescheduled = "rescheduled"
	BookingStatusCompleted   = "completed"
	BookingStatusCancelled   = "cancelled"
)

// RecurringBooking is a client's claim on a set of weekly slots, realized as a
// finite series of dated session instances. While the status is confirmed or
// rescheduled, every slot in Slots is exclusively owned by this booking among
// all of the same provider's bookings, regardless of offering.
type RecurringBooking struct {
	ID              string         `bson:"id" json:"id"`
	ProviderID      string         `bson:"providerId" json:"providerId"`
	OfferingID      string         `bson:"offeringId" json:"offeringId"`
	ClientRef       string         `bson:"clientRef" json:"clientRef"`
	Slots           []BookableSlot `bson:"slots" json:"slots"`
	StartDate       string         `bson:"startDate" json:"startDate"` // "YYYY-MM-DD"
	TotalSessions   int            `bson:"totalSessions" json:"totalSessions"`
	DurationMinutes int            `bson:"durationMinutes" json:"durationMinutes"`
	Status          string         `bson:"status" json:"status"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// RecurringBookingDraft is the validated input to the ledger commit. It
// carries no ID or status; both are assigned when the commit succeeds.
type RecurringBookingDraft struct {
	ProviderID      string         `json:"providerId"`
	OfferingID      string         `json:"offeringId"`
	ClientRef       string         `json:"clientRef"`
	Slots           []BookableSlot `json:"slots"`
	StartDate       string         `json:"startDate"`
	TotalSessions   int            `json:"totalSessions"`
	DurationMinutes int            `json:"durationMinutes"`
}

// IsActive reports whether the booking currently owns its slots.
func (b *RecurringBooking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusRescheduled
}
