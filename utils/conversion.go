package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire/storage format for calendar dates.
const DateLayout = "2006-01-02"

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a day name (case-insensitive) to its weekday value.
func ParseWeekday(name string) (time.Weekday, error) {
	if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return wd, nil
	}
	return 0, fmt.Errorf("invalid weekday %q", name)
}

// MinutesToClock renders minutes-from-midnight as "HH:MM" (24h).
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes parses "HH:MM" (24h) into minutes from midnight.
func ClockToMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a "YYYY-MM-DD" date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}
