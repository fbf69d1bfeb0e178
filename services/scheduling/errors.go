package scheduling

import (
	"fmt"

	"tutorly/models"
	"tutorly/utils"
)

// ValidationError reports malformed caller input that never reached the
// store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidRangeError reports a weekly range whose start is not before its end.
// Bad ranges are rejected outright so providers see the configuration error
// instead of silently losing availability.
type InvalidRangeError struct {
	Range models.WeeklyRange
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid weekly range on %s: start %s is not before end %s",
		e.Range.Day, utils.MinutesToClock(e.Range.Start), utils.MinutesToClock(e.Range.End))
}

// EmptyScheduleError reports a generation request with no weekly pattern.
type EmptyScheduleError struct{}

func (e *EmptyScheduleError) Error() string {
	return "cannot generate sessions from an empty weekly pattern"
}

// ScheduleHorizonExceededError reports that the generator walked a full year
// from the start date without producing the requested number of sessions.
type ScheduleHorizonExceededError struct {
	StartDate string
	Generated int
	Requested int
}

func (e *ScheduleHorizonExceededError) Error() string {
	return fmt.Sprintf("365-day horizon from %s exceeded: generated %d of %d sessions",
		e.StartDate, e.Generated, e.Requested)
}

// ConflictError reports candidate slots already owned by another of the
// provider's active bookings. Conflicts are expected and user-facing; callers
// render ConflictingSlots back to the user rather than treating this as a
// fault.
type ConflictError struct {
	ConflictingSlots []models.BookableSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d requested slot(s) conflict with existing bookings", len(e.ConflictingSlots))
}

// RescheduleLimitExceededError reports too many simultaneously pending
// reschedule requests against one booking.
type RescheduleLimitExceededError struct {
	BookingID string
	Limit     int
}

func (e *RescheduleLimitExceededError) Error() string {
	return fmt.Sprintf("booking %s already has %d pending reschedule requests", e.BookingID, e.Limit)
}

// InvalidStateTransitionError reports an accept/decline against a request
// that has already been resolved.
type InvalidStateTransitionError struct {
	RequestID string
	Status    string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("reschedule request %s is already %s", e.RequestID, e.Status)
}
