package scheduling

import (
	"fmt"
	"time"

	"tutorly/models"
)

// ProjectSlot converts a stored (time, day) pair from the provider's timezone
// into a viewer's timezone for display. When the conversion crosses midnight
// the day-of-week rolls with it, forward or backward. Stored values are never
// mutated; the projection exists only at display boundaries.
//
// The conversion is anchored to a fixed reference week so the result depends
// only on the inputs, not on "now".
func ProjectSlot(slot models.BookableSlot, sourceTz, targetTz string) (models.BookableSlot, error) {
	src, err := time.LoadLocation(sourceTz)
	if err != nil {
		return models.BookableSlot{}, fmt.Errorf("invalid source timezone %q: %w", sourceTz, err)
	}
	dst, err := time.LoadLocation(targetTz)
	if err != nil {
		return models.BookableSlot{}, fmt.Errorf("invalid target timezone %q: %w", targetTz, err)
	}

	// 2024-06-02 is a Sunday; adding the slot's weekday lands on the matching
	// day of that week.
	anchor := time.Date(2024, time.June, 2+int(slot.Day), slot.Time/60, slot.Time%60, 0, 0, src)
	projected := anchor.In(dst)

	return models.BookableSlot{
		Day:  projected.Weekday(),
		Time: projected.Hour()*60 + projected.Minute(),
	}, nil
}

// ProjectSession converts a dated session instance's local date and time into
// the viewer's timezone. The instance itself is read-only; the projection is
// returned as a fresh value.
func ProjectSession(s models.SessionInstance, sourceTz, targetTz string) (date string, minutes int, day time.Weekday, err error) {
	src, err := time.LoadLocation(sourceTz)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid source timezone %q: %w", sourceTz, err)
	}
	dst, err := time.LoadLocation(targetTz)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid target timezone %q: %w", targetTz, err)
	}

	local, err := time.ParseInLocation("2006-01-02", s.Date, src)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid session date %q: %w", s.Date, err)
	}
	at := local.Add(time.Duration(s.Time) * time.Minute)
	projected := at.In(dst)

	return projected.Format("2006-01-02"),
		projected.Hour()*60 + projected.Minute(),
		projected.Weekday(),
		nil
}
