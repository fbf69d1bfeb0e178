package scheduling

import (
	"testing"
	"time"

	"tutorly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyMondayNoon() models.WeeklyPattern {
	return models.WeeklyPattern{
		Days:            []time.Weekday{time.Monday},
		Times:           []int{720},
		DurationMinutes: 60,
	}
}

func TestGenerateSessionsWeeklySingleDay(t *testing.T) {
	// 2024-01-01 is a Monday.
	sessions, err := GenerateSessions(weeklyMondayNoon(), "bk-1", "2024-01-01", 4)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	for i, s := range sessions {
		assert.Equal(t, wantDates[i], s.Date)
		assert.Equal(t, i+1, s.SequenceNumber)
		assert.Equal(t, time.Monday, s.Day)
		assert.Equal(t, 720, s.Time)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, models.SessionStatusScheduled, s.Status)
		assert.Equal(t, "bk-1", s.RecurringBookingID)
	}
}

func TestGenerateSessionsStartDateNotOnPatternDay(t *testing.T) {
	// 2024-01-03 is a Wednesday; first Monday after it is 2024-01-08.
	sessions, err := GenerateSessions(weeklyMondayNoon(), "bk-1", "2024-01-03", 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "2024-01-08", sessions[0].Date)
	assert.Equal(t, "2024-01-15", sessions[1].Date)
}

func TestGenerateSessionsInterleavesMultipleDays(t *testing.T) {
	pattern := models.WeeklyPattern{
		Days:            []time.Weekday{time.Monday, time.Thursday},
		Times:           []int{600, 840},
		DurationMinutes: 90,
	}

	sessions, err := GenerateSessions(pattern, "bk-2", "2024-01-01", 5)
	require.NoError(t, err)
	require.Len(t, sessions, 5)

	wantDates := []string{"2024-01-01", "2024-01-04", "2024-01-08", "2024-01-11", "2024-01-15"}
	wantTimes := []int{600, 840, 600, 840, 600}
	for i, s := range sessions {
		assert.Equal(t, wantDates[i], s.Date)
		assert.Equal(t, wantTimes[i], s.Time)
		assert.Equal(t, i+1, s.SequenceNumber)
	}
}

func TestGenerateSessionsTwoTimesOnSameDay(t *testing.T) {
	pattern := models.WeeklyPattern{
		Days:            []time.Weekday{time.Monday, time.Monday},
		Times:           []int{840, 600}, // insertion order must not matter
		DurationMinutes: 60,
	}

	sessions, err := GenerateSessions(pattern, "bk-8", "2024-01-01", 4)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	wantDates := []string{"2024-01-01", "2024-01-01", "2024-01-08", "2024-01-08"}
	wantTimes := []int{600, 840, 600, 840}
	for i, s := range sessions {
		assert.Equal(t, wantDates[i], s.Date)
		assert.Equal(t, wantTimes[i], s.Time)
		assert.Equal(t, i+1, s.SequenceNumber)
	}
}

func TestGenerateSessionsOddCountTruncatesWithinDay(t *testing.T) {
	pattern := models.WeeklyPattern{
		Days:            []time.Weekday{time.Monday, time.Monday},
		Times:           []int{600, 840},
		DurationMinutes: 60,
	}

	sessions, err := GenerateSessions(pattern, "bk-8", "2024-01-01", 3)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "2024-01-08", sessions[2].Date)
	assert.Equal(t, 600, sessions[2].Time)
}

func TestGenerateSessionsRejectsRepeatedSlot(t *testing.T) {
	pattern := models.WeeklyPattern{
		Days:            []time.Weekday{time.Monday, time.Monday},
		Times:           []int{600, 600},
		DurationMinutes: 60,
	}

	_, err := GenerateSessions(pattern, "bk-8", "2024-01-01", 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGenerateSessionsDeterministicDates(t *testing.T) {
	pattern := models.WeeklyPattern{
		Days:            []time.Weekday{time.Tuesday, time.Saturday},
		Times:           []int{480, 1020},
		DurationMinutes: 60,
	}

	first, err := GenerateSessions(pattern, "bk-3", "2024-03-15", 12)
	require.NoError(t, err)
	again, err := GenerateSessions(pattern, "bk-3", "2024-03-15", 12)
	require.NoError(t, err)

	require.Len(t, again, len(first))
	for i := range first {
		assert.Equal(t, first[i].Date, again[i].Date)
		assert.Equal(t, first[i].Day, again[i].Day)
		assert.Equal(t, first[i].Time, again[i].Time)
		assert.Equal(t, first[i].SequenceNumber, again[i].SequenceNumber)
	}
}

func TestGenerateSessionsEmptyPattern(t *testing.T) {
	_, err := GenerateSessions(models.WeeklyPattern{DurationMinutes: 60}, "bk-4", "2024-01-01", 3)
	var empty *EmptyScheduleError
	require.ErrorAs(t, err, &empty)
}

func TestGenerateSessionsHorizonGuard(t *testing.T) {
	// One session per week cannot yield 60 sessions inside 365 days.
	_, err := GenerateSessions(weeklyMondayNoon(), "bk-5", "2024-01-01", 60)
	var horizon *ScheduleHorizonExceededError
	require.ErrorAs(t, err, &horizon)
	assert.Equal(t, "2024-01-01", horizon.StartDate)
	assert.Equal(t, 60, horizon.Requested)
	assert.Greater(t, horizon.Requested, horizon.Generated)
}

func TestGenerateSessionsMaxFittingCountSucceeds(t *testing.T) {
	// Starting on the pattern day, a 365-day walk holds 53 Mondays.
	sessions, err := GenerateSessions(weeklyMondayNoon(), "bk-6", "2024-01-01", 53)
	require.NoError(t, err)
	require.Len(t, sessions, 53)
	assert.Equal(t, "2024-12-30", sessions[52].Date)
}

func TestGenerateSessionsRejectsBadInput(t *testing.T) {
	var verr *ValidationError

	_, err := GenerateSessions(models.WeeklyPattern{
		Days: []time.Weekday{time.Monday, time.Friday}, Times: []int{600}, DurationMinutes: 60,
	}, "bk-7", "2024-01-01", 2)
	require.ErrorAs(t, err, &verr)

	_, err = GenerateSessions(weeklyMondayNoon(), "bk-7", "2024-01-01", 0)
	require.ErrorAs(t, err, &verr)

	_, err = GenerateSessions(weeklyMondayNoon(), "bk-7", "01/01/2024", 2)
	require.Error(t, err)
}
