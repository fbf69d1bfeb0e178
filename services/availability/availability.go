package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	availabilityRepo "tutorly/database/repository/availability"
	"tutorly/models"
	"tutorly/services/scheduling"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const openSlotsCacheTTL = 60 * time.Second

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo      availabilityRepo.AvailabilityRepository
	Conflicts *scheduling.ConflictChecker
	Cache     *redis.Client
	Logger    *zap.Logger
}

func (svc *DefaultAvailabilityService) SetWeeklyAvailability(ctx context.Context, providerID, timezone string, ranges []models.WeeklyRange) (*models.ProviderAvailability, error) {
	if providerID == "" {
		return nil, fmt.Errorf("providerId is required")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	for _, r := range ranges {
		if r.Start >= r.End {
			return nil, &scheduling.InvalidRangeError{Range: r}
		}
		if r.Start < 0 || r.End > 24*60 {
			return nil, fmt.Errorf("range on %s exceeds the day: [%d, %d]", r.Day, r.Start, r.End)
		}
	}

	availability := &models.ProviderAvailability{
		ProviderID: providerID,
		Timezone:   timezone,
		Ranges:     ranges,
	}
	if err := svc.Repo.Replace(ctx, availability); err != nil {
		return nil, err
	}
	svc.InvalidateOpenSlots(ctx, providerID)
	return availability, nil
}

func (svc *DefaultAvailabilityService) GetWeeklyAvailability(ctx context.Context, providerID string) (*models.ProviderAvailability, error) {
	return svc.Repo.GetByProvider(ctx, providerID)
}

func (svc *DefaultAvailabilityService) GetOpenSlots(ctx context.Context, providerID string, durationMinutes int) ([]models.BookableSlot, error) {
	cacheKey := openSlotsKey(providerID, durationMinutes)
	if svc.Cache != nil {
		if data, err := svc.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached []models.BookableSlot
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return cached, nil
			}
		}
	}

	stored, err := svc.Repo.GetByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	candidates, err := scheduling.ExpandRanges(stored.Ranges, durationMinutes)
	if err != nil {
		return nil, err
	}
	conflicts, err := svc.Conflicts.FindConflicts(ctx, providerID, candidates)
	if err != nil {
		return nil, err
	}

	taken := make(map[models.BookableSlot]struct{}, len(conflicts))
	for _, c := range conflicts {
		taken[c] = struct{}{}
	}
	open := make([]models.BookableSlot, 0, len(candidates))
	for _, s := range candidates {
		if _, booked := taken[s]; !booked {
			open = append(open, s)
		}
	}

	if svc.Cache != nil {
		if data, err := json.Marshal(open); err == nil {
			if err := svc.Cache.Set(ctx, cacheKey, data, openSlotsCacheTTL).Err(); err != nil && svc.Logger != nil {
				svc.Logger.Warn("failed to cache open slots", zap.String("providerId", providerID), zap.Error(err))
			}
		}
	}
	return open, nil
}

// InvalidateOpenSlots drops every cached duration variant for the provider.
func (svc *DefaultAvailabilityService) InvalidateOpenSlots(ctx context.Context, providerID string) {
	if svc.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("openslots:%s:*", providerID)
	iter := svc.Cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := svc.Cache.Del(ctx, iter.Val()).Err(); err != nil && svc.Logger != nil {
			svc.Logger.Warn("failed to invalidate open-slot cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
}

func openSlotsKey(providerID string, durationMinutes int) string {
	return fmt.Sprintf("openslots:%s:%d", providerID, durationMinutes)
}
