package availabilityRepo

import (
	"context"

	"tutorly/models"
)

// AvailabilityRepository persists each provider's weekly availability set.
// The set is replaced wholesale on save; there is no per-range edit.
type AvailabilityRepository interface {
	Replace(ctx context.Context, availability *models.ProviderAvailability) error
	GetByProvider(ctx context.Context, providerID string) (*models.ProviderAvailability, error)
}
