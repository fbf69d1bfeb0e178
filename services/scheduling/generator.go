package scheduling

import (
	"sort"
	"time"

	"tutorly/models"
	"tutorly/utils"

	"github.com/google/uuid"
)

// generationHorizonDays bounds the calendar walk so a sparse pattern cannot
// loop unboundedly.
const generationHorizonDays = 365

// GenerateSessions materializes totalSessions dated instances from a weekly
// pattern, walking forward one calendar day at a time from startDate
// (inclusive). Every (day, time) pair in the pattern yields its own instance:
// a weekday carrying several times produces several instances on that date,
// earliest time first. Sequence numbers are 1-based, dense, and
// chronological. The walk is fully deterministic: identical inputs yield
// identical dates.
func GenerateSessions(pattern models.WeeklyPattern, bookingID, startDate string, totalSessions int) ([]models.SessionInstance, error) {
	if len(pattern.Days) == 0 || len(pattern.Times) == 0 {
		return nil, &EmptyScheduleError{}
	}
	if len(pattern.Days) != len(pattern.Times) {
		return nil, validationErrorf("pattern days and times must be parallel: %d days, %d times",
			len(pattern.Days), len(pattern.Times))
	}
	if totalSessions <= 0 {
		return nil, validationErrorf("totalSessions must be positive, got %d", totalSessions)
	}

	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	timesForDay := make(map[time.Weekday][]int, len(pattern.Days))
	for i, d := range pattern.Days {
		timesForDay[d] = append(timesForDay[d], pattern.Times[i])
	}
	for d, times := range timesForDay {
		sort.Ints(times)
		for j := 1; j < len(times); j++ {
			if times[j] == times[j-1] {
				return nil, validationErrorf("pattern repeats %s at %s", d, utils.MinutesToClock(times[j]))
			}
		}
		timesForDay[d] = times
	}

	sessions := make([]models.SessionInstance, 0, totalSessions)
	for offset := 0; len(sessions) < totalSessions; offset++ {
		if offset >= generationHorizonDays {
			return nil, &ScheduleHorizonExceededError{
				StartDate: startDate,
				Generated: len(sessions),
				Requested: totalSessions,
			}
		}
		date := start.AddDate(0, 0, offset)
		for _, minutes := range timesForDay[date.Weekday()] {
			if len(sessions) == totalSessions {
				break
			}
			sessions = append(sessions, models.SessionInstance{
				ID:                 uuid.New().String(),
				RecurringBookingID: bookingID,
				SequenceNumber:     len(sessions) + 1,
				Date:               date.Format(utils.DateLayout),
				Day:                date.Weekday(),
				Time:               minutes,
				DurationMinutes:    pattern.DurationMinutes,
				Status:             models.SessionStatusScheduled,
			})
		}
	}
	return sessions, nil
}
