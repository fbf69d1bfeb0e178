package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorly/database"
	"tutorly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a provider has no stored availability.
var ErrNotFound = errors.New("availability not found")

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("availability"),
	}
}

func (repo *mongoAvailabilityRepo) Replace(ctx context.Context, availability *models.ProviderAvailability) error {
	availability.UpdatedAt = time.Now().UTC()

	filter := bson.M{"providerId": availability.ProviderID}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, filter, availability, opts); err != nil {
		return fmt.Errorf("failed to replace availability for provider %s: %w", availability.ProviderID, err)
	}
	return nil
}

func (repo *mongoAvailabilityRepo) GetByProvider(ctx context.Context, providerID string) (*models.ProviderAvailability, error) {
	var availability models.ProviderAvailability
	err := repo.coll.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&availability)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch availability for provider %s: %w", providerID, err)
	}
	return &availability, nil
}
