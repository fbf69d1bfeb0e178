package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "tutorly/database/repository/booking"
	"tutorly/models"
	"tutorly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingLedger owns the atomic "claim a recurring slot set" operation. The
// commit re-validates conflicts inside the same transaction scope as the
// insert, closing the check-then-act race a naive pre-check would leave open.
type BookingLedger struct {
	Bookings  bookingRepo.BookingRepository
	Conflicts *ConflictChecker
	Logger    *zap.Logger
}

// Commit validates the draft, generates its full session series, and persists
// booking, slot claims, and sessions in one transaction. On a slot collision
// it returns ConflictError with the colliding slots; session generation
// failures surface before any write, so a booking can never be committed
// without its sessions.
func (bl *BookingLedger) Commit(ctx context.Context, draft models.RecurringBookingDraft) (*models.RecurringBooking, []models.SessionInstance, error) {
	if err := validateDraft(draft); err != nil {
		return nil, nil, err
	}

	slots := dedupeSlots(draft.Slots)
	bookingID := uuid.New().String()

	// Generate before writing anything: an empty or unreachable schedule is a
	// configuration error and must abort the whole commit.
	pattern := models.PatternFromSlots(slots, draft.DurationMinutes)
	sessions, err := GenerateSessions(pattern, bookingID, draft.StartDate, draft.TotalSessions)
	if err != nil {
		return nil, nil, err
	}

	// Advisory pre-check for a fast, well-shaped rejection. The unique index
	// inside CommitBooking remains the authoritative gate.
	conflicts, err := bl.Conflicts.FindConflicts(ctx, draft.ProviderID, slots)
	if err != nil {
		return nil, nil, fmt.Errorf("conflict pre-check failed: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, nil, &ConflictError{ConflictingSlots: conflicts}
	}

	now := time.Now().UTC()
	booking := &models.RecurringBooking{
		ID:              bookingID,
		ProviderID:      draft.ProviderID,
		OfferingID:      draft.OfferingID,
		ClientRef:       draft.ClientRef,
		Slots:           slots,
		StartDate:       draft.StartDate,
		TotalSessions:   draft.TotalSessions,
		DurationMinutes: draft.DurationMinutes,
		Status:          models.BookingStatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := bl.Bookings.CommitBooking(ctx, booking, sessions); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			// Lost the race after the pre-check passed. Re-read to report
			// which slots were taken.
			conflicts, cErr := bl.Conflicts.FindConflicts(ctx, draft.ProviderID, slots)
			if cErr != nil || len(conflicts) == 0 {
				conflicts = slots
			}
			return nil, nil, &ConflictError{ConflictingSlots: conflicts}
		}
		return nil, nil, fmt.Errorf("booking commit failed: %w", err)
	}

	if bl.Logger != nil {
		bl.Logger.Info("booking committed",
			zap.String("bookingId", booking.ID),
			zap.String("providerId", booking.ProviderID),
			zap.Int("slots", len(slots)),
			zap.Int("sessions", len(sessions)))
	}
	return booking, sessions, nil
}

// Cancel soft-closes a booking and releases its claims.
func (bl *BookingLedger) Cancel(ctx context.Context, bookingID string) error {
	return bl.Bookings.Cancel(ctx, bookingID)
}

func validateDraft(draft models.RecurringBookingDraft) error {
	if draft.ProviderID == "" {
		return validationErrorf("providerId is required")
	}
	if draft.ClientRef == "" {
		return validationErrorf("clientRef is required")
	}
	if draft.OfferingID == "" {
		return validationErrorf("offeringId is required")
	}
	if len(draft.Slots) == 0 {
		return &EmptyScheduleError{}
	}
	for _, s := range draft.Slots {
		if s.Day < time.Sunday || s.Day > time.Saturday {
			return validationErrorf("invalid weekday %d in slot", s.Day)
		}
		if s.Time < 0 || s.Time >= 24*60 {
			return validationErrorf("slot time %d out of range", s.Time)
		}
	}
	if draft.DurationMinutes <= 0 {
		return validationErrorf("durationMinutes must be positive")
	}
	if draft.TotalSessions <= 0 {
		return validationErrorf("totalSessions must be positive")
	}
	if _, err := utils.ParseDate(draft.StartDate); err != nil {
		return &ValidationError{Msg: err.Error()}
	}
	return nil
}

func dedupeSlots(slots []models.BookableSlot) []models.BookableSlot {
	seen := make(map[models.BookableSlot]struct{}, len(slots))
	out := make([]models.BookableSlot, 0, len(slots))
	for _, s := range slots {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
