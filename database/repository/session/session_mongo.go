package sessionRepo

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

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a MongoDB-backed SessionRepository.
func NewMongoSessionRepo() SessionRepository {
	return &mongoSessionRepo{
		coll: database.DB().Collection("session_instances"),
	}
}

func (repo *mongoSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.SessionInstance, error) {
	var session models.SessionInstance
	err := repo.coll.FindOne(ctx, bson.M{"id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (repo *mongoSessionRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.SessionInstance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sequenceNumber", Value: 1}})
	cur, err := repo.coll.Find(ctx, bson.M{"recurringBookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for booking %s: %w", bookingID, err)
	}
	defer cur.Close(ctx)

	var sessions []models.SessionInstance
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions for booking %s: %w", bookingID, err)
	}
	return sessions, nil
}

func (repo *mongoSessionRepo) Reschedule(ctx context.Context, sessionID, date string, day time.Weekday, minutes int) error {
	update := bson.M{"$set": bson.M{
		"date":   date,
		"day":    day,
		"time":   minutes,
		"status": models.SessionStatusRescheduled,
	}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to reschedule session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *mongoSessionRepo) UpdateStatus(ctx context.Context, sessionID, status string) error {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": sessionID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update session %s status: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
