package bookingRepo

import (
	"context"
	"errors"
	"time"

	"tutorly/models"
)

// ErrSlotTaken is surfaced when the slot_claims unique index rejects a write,
// meaning another booking committed one of the requested slots first.
var ErrSlotTaken = errors.New("one or more slots already claimed")

// ErrNotFound is returned when a booking does not exist.
var ErrNotFound = errors.New("booking not found")

// SessionMove retargets one generated instance during a booking-level
// reschedule.
type SessionMove struct {
	SessionID string
	Date      string
	Day       time.Weekday
	Time      int
}

// BookingRepository persists recurring bookings and owns the transactional
// primitives the ledger requires: an atomic "insert iff no slot-set
// intersection for this provider" and an atomic slot swap for accepted
// booking-level reschedules. Both rely on a unique index over
// (providerId, day, time) in the slot_claims collection, so a concurrent
// duplicate insert fails at the storage layer instead of silently succeeding.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.RecurringBooking, error)
	// GetActiveByProvider loads every confirmed or rescheduled booking for
	// the provider, across all offerings.
	GetActiveByProvider(ctx context.Context, providerID string) ([]models.RecurringBooking, error)
	// CommitBooking inserts the booking, its slot claims, and its generated
	// session instances in one transaction. Returns ErrSlotTaken if any
	// claim collides with a committed slot.
	CommitBooking(ctx context.Context, booking *models.RecurringBooking, sessions []models.SessionInstance) error
	// SwapSlot atomically releases the booking's claim on from, claims to,
	// rewrites the slot entry on the booking, marks it rescheduled, and
	// retargets the given future instances. Returns ErrSlotTaken if to is
	// already claimed.
	SwapSlot(ctx context.Context, bookingID string, from, to models.BookableSlot, moves []SessionMove) error
	// Cancel soft-closes the booking, releases all its slot claims, and
	// cancels its remaining scheduled instances.
	Cancel(ctx context.Context, bookingID string) error
}
