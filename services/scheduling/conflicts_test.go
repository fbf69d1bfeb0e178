package scheduling

import (
	"context"
	"testing"
	"time"

	"tutorly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooking(st *fakeStore, id, providerID, offeringID, clientRef, status string, slots ...models.BookableSlot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.bookings[id] = models.RecurringBooking{
		ID:              id,
		ProviderID:      providerID,
		OfferingID:      offeringID,
		ClientRef:       clientRef,
		Slots:           slots,
		StartDate:       "2024-01-01",
		TotalSessions:   4,
		DurationMinutes: 60,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	for _, s := range slots {
		st.claims[claimKey{providerID, s}] = id
	}
}

func TestFindConflictsAcrossOfferings(t *testing.T) {
	st := newFakeStore()
	mon10 := models.BookableSlot{Day: time.Monday, Time: 600}
	wed14 := models.BookableSlot{Day: time.Wednesday, Time: 840}
	seedBooking(st, "bk-1", "prov-1", "offering-math", "client-a", models.BookingStatusConfirmed, mon10)
	seedBooking(st, "bk-2", "prov-1", "offering-physics", "client-b", models.BookingStatusRescheduled, wed14)

	cc := &ConflictChecker{Bookings: &fakeBookingRepo{st}}
	conflicts, err := cc.FindConflicts(context.Background(), "prov-1", []models.BookableSlot{
		mon10,
		wed14,
		{Day: time.Friday, Time: 600},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.BookableSlot{mon10, wed14}, conflicts)
}

func TestFindConflictsIgnoresInactiveBookings(t *testing.T) {
	st := newFakeStore()
	mon10 := models.BookableSlot{Day: time.Monday, Time: 600}
	seedBooking(st, "bk-1", "prov-1", "offering-math", "client-a", models.BookingStatusCancelled, mon10)
	seedBooking(st, "bk-2", "prov-1", "offering-math", "client-b", models.BookingStatusCompleted,
		models.BookableSlot{Day: time.Tuesday, Time: 600})

	cc := &ConflictChecker{Bookings: &fakeBookingRepo{st}}
	conflicts, err := cc.FindConflicts(context.Background(), "prov-1", []models.BookableSlot{
		mon10,
		{Day: time.Tuesday, Time: 600},
	})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsIsScopedToProvider(t *testing.T) {
	st := newFakeStore()
	mon10 := models.BookableSlot{Day: time.Monday, Time: 600}
	seedBooking(st, "bk-1", "prov-other", "offering-math", "client-a", models.BookingStatusConfirmed, mon10)

	cc := &ConflictChecker{Bookings: &fakeBookingRepo{st}}
	conflicts, err := cc.FindConflicts(context.Background(), "prov-1", []models.BookableSlot{mon10})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestFindConflictsExcludingOwnBooking(t *testing.T) {
	st := newFakeStore()
	mon10 := models.BookableSlot{Day: time.Monday, Time: 600}
	tue11 := models.BookableSlot{Day: time.Tuesday, Time: 660}
	seedBooking(st, "bk-1", "prov-1", "offering-math", "client-a", models.BookingStatusConfirmed, mon10)
	seedBooking(st, "bk-2", "prov-1", "offering-math", "client-b", models.BookingStatusConfirmed, tue11)

	cc := &ConflictChecker{Bookings: &fakeBookingRepo{st}}

	conflicts, err := cc.FindConflictsExcluding(context.Background(), "prov-1", "bk-1",
		[]models.BookableSlot{mon10, tue11})
	require.NoError(t, err)
	assert.Equal(t, []models.BookableSlot{tue11}, conflicts)
}

func TestFindConflictsEmptyCandidates(t *testing.T) {
	st := newFakeStore()
	cc := &ConflictChecker{Bookings: &fakeBookingRepo{st}}
	conflicts, err := cc.FindConflicts(context.Background(), "prov-1", nil)
	require.NoError(t, err)
	assert.Nil(t, conflicts)
}
