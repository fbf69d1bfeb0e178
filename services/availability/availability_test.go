package availability

import (
	"context"
	"testing"
	"time"

	availabilityRepo "tutorly/database/repository/availability"
	bookingRepo "tutorly/database/repository/booking"
	"tutorly/models"
	"tutorly/services/scheduling"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memAvailabilityRepo struct {
	byProvider map[string]models.ProviderAvailability
}

func (r *memAvailabilityRepo) Replace(_ context.Context, a *models.ProviderAvailability) error {
	r.byProvider[a.ProviderID] = *a
	return nil
}

func (r *memAvailabilityRepo) GetByProvider(_ context.Context, providerID string) (*models.ProviderAvailability, error) {
	a, ok := r.byProvider[providerID]
	if !ok {
		return nil, availabilityRepo.ErrNotFound
	}
	out := a
	return &out, nil
}

// memBookingRepo serves only the active-bookings read the conflict checker
// needs.
type memBookingRepo struct {
	active []models.RecurringBooking
}

func (r *memBookingRepo) GetByID(context.Context, string) (*models.RecurringBooking, error) {
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) GetActiveByProvider(_ context.Context, providerID string) ([]models.RecurringBooking, error) {
	var out []models.RecurringBooking
	for _, b := range r.active {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) CommitBooking(context.Context, *models.RecurringBooking, []models.SessionInstance) error {
	return nil
}

func (r *memBookingRepo) SwapSlot(context.Context, string, models.BookableSlot, models.BookableSlot, []bookingRepo.SessionMove) error {
	return nil
}

func (r *memBookingRepo) Cancel(context.Context, string) error { return nil }

func newTestService(t *testing.T, bookings *memBookingRepo) (*DefaultAvailabilityService, *memAvailabilityRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo := &memAvailabilityRepo{byProvider: make(map[string]models.ProviderAvailability)}
	svc := &DefaultAvailabilityService{
		Repo:      repo,
		Conflicts: &scheduling.ConflictChecker{Bookings: bookings},
		Cache:     redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		Logger:    zap.NewNop(),
	}
	return svc, repo
}

func TestSetWeeklyAvailabilityStoresAndValidates(t *testing.T) {
	svc, repo := newTestService(t, &memBookingRepo{})
	ctx := context.Background()

	ranges := []models.WeeklyRange{{Day: time.Monday, Start: 540, End: 720}}
	stored, err := svc.SetWeeklyAvailability(ctx, "prov-1", "Europe/Berlin", ranges)
	require.NoError(t, err)
	assert.Equal(t, "prov-1", stored.ProviderID)
	assert.Len(t, repo.byProvider, 1)

	_, err = svc.SetWeeklyAvailability(ctx, "prov-1", "Nowhere/Land", ranges)
	require.Error(t, err)

	var invalid *scheduling.InvalidRangeError
	_, err = svc.SetWeeklyAvailability(ctx, "prov-1", "UTC",
		[]models.WeeklyRange{{Day: time.Monday, Start: 720, End: 540}})
	require.ErrorAs(t, err, &invalid)

	_, err = svc.SetWeeklyAvailability(ctx, "prov-1", "UTC",
		[]models.WeeklyRange{{Day: time.Monday, Start: 1380, End: 1500}})
	require.Error(t, err, "range past midnight")
}

func TestGetOpenSlotsSubtractsBookedSlots(t *testing.T) {
	bookings := &memBookingRepo{active: []models.RecurringBooking{{
		ID:         "bk-1",
		ProviderID: "prov-1",
		Slots:      []models.BookableSlot{{Day: time.Monday, Time: 600}},
		Status:     models.BookingStatusConfirmed,
	}}}
	svc, _ := newTestService(t, bookings)
	ctx := context.Background()

	_, err := svc.SetWeeklyAvailability(ctx, "prov-1", "UTC",
		[]models.WeeklyRange{{Day: time.Monday, Start: 540, End: 720}})
	require.NoError(t, err)

	open, err := svc.GetOpenSlots(ctx, "prov-1", 60)
	require.NoError(t, err)
	assert.Equal(t, []models.BookableSlot{
		{Day: time.Monday, Time: 540},
		{Day: time.Monday, Time: 660},
	}, open)
}

func TestGetOpenSlotsCachesUntilInvalidated(t *testing.T) {
	bookings := &memBookingRepo{}
	svc, repo := newTestService(t, bookings)
	ctx := context.Background()

	_, err := svc.SetWeeklyAvailability(ctx, "prov-1", "UTC",
		[]models.WeeklyRange{{Day: time.Monday, Start: 540, End: 660}})
	require.NoError(t, err)

	first, err := svc.GetOpenSlots(ctx, "prov-1", 60)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Mutate the store behind the cache; the stale set keeps being served.
	repo.byProvider["prov-1"] = models.ProviderAvailability{
		ProviderID: "prov-1",
		Timezone:   "UTC",
		Ranges:     []models.WeeklyRange{{Day: time.Friday, Start: 540, End: 600}},
	}
	cached, err := svc.GetOpenSlots(ctx, "prov-1", 60)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	svc.InvalidateOpenSlots(ctx, "prov-1")
	fresh, err := svc.GetOpenSlots(ctx, "prov-1", 60)
	require.NoError(t, err)
	assert.Equal(t, []models.BookableSlot{{Day: time.Friday, Time: 540}}, fresh)
}

func TestGetOpenSlotsWorksWithoutCache(t *testing.T) {
	repo := &memAvailabilityRepo{byProvider: make(map[string]models.ProviderAvailability)}
	svc := &DefaultAvailabilityService{
		Repo:      repo,
		Conflicts: &scheduling.ConflictChecker{Bookings: &memBookingRepo{}},
		Logger:    zap.NewNop(),
	}
	ctx := context.Background()

	_, err := svc.SetWeeklyAvailability(ctx, "prov-1", "UTC",
		[]models.WeeklyRange{{Day: time.Tuesday, Start: 600, End: 720}})
	require.NoError(t, err)

	open, err := svc.GetOpenSlots(ctx, "prov-1", 60)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestGetOpenSlotsUnknownProvider(t *testing.T) {
	svc, _ := newTestService(t, &memBookingRepo{})
	_, err := svc.GetOpenSlots(context.Background(), "ghost", 60)
	require.ErrorIs(t, err, availabilityRepo.ErrNotFound)
}
