package availability

import (
	"context"

	"tutorly/models"
)

// AvailabilityService manages a provider's published weekly availability and
// computes the open slots a client can still book.
type AvailabilityService interface {
	// SetWeeklyAvailability replaces the provider's whole range set.
	SetWeeklyAvailability(ctx context.Context, providerID, timezone string, ranges []models.WeeklyRange) (*models.ProviderAvailability, error)
	GetWeeklyAvailability(ctx context.Context, providerID string) (*models.ProviderAvailability, error)
	// GetOpenSlots expands the ranges into discrete slots of the given
	// duration and subtracts every slot already committed to an active
	// booking. The result is advisory; the ledger re-checks on commit.
	GetOpenSlots(ctx context.Context, providerID string, durationMinutes int) ([]models.BookableSlot, error)
	// InvalidateOpenSlots drops cached slot sets after a booking mutation.
	InvalidateOpenSlots(ctx context.Context, providerID string)
}
