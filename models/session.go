package models

import "time"

// SessionInstance statuses.
const (
	SessionStatusScheduled   = "scheduled"
	SessionStatusCompleted   = "completed"
	SessionStatusCancelled   = "cancelled"
	SessionStatusRescheduled = "rescheduled"
	SessionStatusNoShow      = "no_show"
)

// SessionInstance is one concrete, calendar-dated occurrence generated from a
// recurring booking. SequenceNumber is 1-based and dense at creation time.
// An instance-level reschedule may later move its date/time without touching
// sibling instances or the parent booking's slot set.
type SessionInstance struct {
	ID                 string       `bson:"id" json:"id"`
	RecurringBookingID string       `bson:"recurringBookingId" json:"recurringBookingId"`
	SequenceNumber     int          `bson:"sequenceNumber" json:"sequenceNumber"`
	Date               string       `bson:"date" json:"date"` // "YYYY-MM-DD"
	Day                time.Weekday `bson:"day" json:"day"`
	Time               int          `bson:"time" json:"time"` // minutes from midnight
	DurationMinutes    int          `bson:"durationMinutes" json:"durationMinutes"`
	Status             string       `bson:"status" json:"status"`
}

// WeeklyPattern is the recurring shape consumed by the session generator.
// Days and Times are parallel: Times[i] is the start time used on Days[i].
type WeeklyPattern struct {
	Days            []time.Weekday `json:"days"`
	Times           []int          `json:"times"` // minutes from midnight
	DurationMinutes int            `json:"durationMinutes"`
}

// PatternFromSlots builds the generator pattern from a booking's slot set.
func PatternFromSlots(slots []BookableSlot, durationMinutes int) WeeklyPattern {
	p := WeeklyPattern{DurationMinutes: durationMinutes}
	for _, s := range slots {
		p.Days = append(p.Days, s.Day)
		p.Times = append(p.Times, s.Time)
	}
	return p
}
