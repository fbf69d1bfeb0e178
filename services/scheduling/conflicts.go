package scheduling

import (
	"context"

	bookingRepo "tutorly/database/repository/booking"
	"tutorly/models"
)

// ConflictChecker determines which candidate slots collide with a provider's
// committed bookings. Booking scope is provider-wide: a slot owned through
// one offering blocks that time for every other offering the provider runs.
type ConflictChecker struct {
	Bookings bookingRepo.BookingRepository
}

// FindConflicts returns the subset of candidates whose (day, time) pair is
// already owned by any confirmed or rescheduled booking of the provider.
// Conflicts come back as data, not an error; callers decide what zero
// conflicts means. This read is advisory when used for pre-submission
// feedback; the authoritative check is the one inside the ledger commit.
func (cc *ConflictChecker) FindConflicts(ctx context.Context, providerID string, candidates []models.BookableSlot) ([]models.BookableSlot, error) {
	return cc.findConflictsExcluding(ctx, providerID, "", candidates)
}

// FindConflictsExcluding behaves like FindConflicts but ignores slots owned
// by the given booking. Booking-level reschedule accepts use this to validate
// a proposed slot against the provider's *other* bookings.
func (cc *ConflictChecker) FindConflictsExcluding(ctx context.Context, providerID, excludeBookingID string, candidates []models.BookableSlot) ([]models.BookableSlot, error) {
	return cc.findConflictsExcluding(ctx, providerID, excludeBookingID, candidates)
}

func (cc *ConflictChecker) findConflictsExcluding(ctx context.Context, providerID, excludeBookingID string, candidates []models.BookableSlot) ([]models.BookableSlot, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	active, err := cc.Bookings.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	committed := make(map[models.BookableSlot]struct{})
	for _, b := range active {
		if excludeBookingID != "" && b.ID == excludeBookingID {
			continue
		}
		for _, s := range b.Slots {
			committed[s] = struct{}{}
		}
	}

	var conflicts []models.BookableSlot
	for _, c := range candidates {
		if _, taken := committed[c]; taken {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}
