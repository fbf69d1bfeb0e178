package rescheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorly/database"
	"tutorly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRescheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoRescheduleRepo constructs a MongoDB-backed RescheduleRepository.
func NewMongoRescheduleRepo() RescheduleRepository {
	return &mongoRescheduleRepo{
		coll: database.DB().Collection("reschedule_requests"),
	}
}

func (repo *mongoRescheduleRepo) Insert(ctx context.Context, request *models.RescheduleRequest) error {
	if _, err := repo.coll.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to insert reschedule request: %w", err)
	}
	return nil
}

func (repo *mongoRescheduleRepo) GetByID(ctx context.Context, requestID string) (*models.RescheduleRequest, error) {
	var request models.RescheduleRequest
	err := repo.coll.FindOne(ctx, bson.M{"id": requestID}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch reschedule request %s: %w", requestID, err)
	}
	return &request, nil
}

func (repo *mongoRescheduleRepo) CountPendingByBooking(ctx context.Context, bookingID string) (int, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{
		"recurringBookingId": bookingID,
		"status":             models.RescheduleStatusPending,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reschedules for booking %s: %w", bookingID, err)
	}
	return int(count), nil
}

func (repo *mongoRescheduleRepo) Resolve(ctx context.Context, requestID, status, responseNote, respondedBy string, respondedAt time.Time) error {
	filter := bson.M{"id": requestID, "status": models.RescheduleStatusPending}
	update := bson.M{"$set": bson.M{
		"status":       status,
		"responseNote": responseNote,
		"respondedBy":  respondedBy,
		"respondedAt":  respondedAt,
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to resolve reschedule request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		// Either missing or already terminal; disambiguate for the caller.
		if _, getErr := repo.GetByID(ctx, requestID); getErr != nil {
			return getErr
		}
		return ErrAlreadyResolved
	}
	return nil
}

func (repo *mongoRescheduleRepo) Reopen(ctx context.Context, requestID string) error {
	filter := bson.M{"id": requestID, "status": models.RescheduleStatusAccepted}
	update := bson.M{
		"$set":   bson.M{"status": models.RescheduleStatusPending},
		"$unset": bson.M{"responseNote": "", "respondedBy": "", "respondedAt": ""},
	}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reopen reschedule request %s: %w", requestID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
