package bookingRepo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the indexes the repository depends on. The unique
// index over (providerId, day, time) is load-bearing: it is the storage-level
// guarantee that no two active bookings of one provider share a slot.
func (repo *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claimIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "providerId", Value: 1},
			{Key: "day", Value: 1},
			{Key: "time", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_provider_slot"),
	}
	if _, err := repo.claimColl.Indexes().CreateOne(ctx, claimIdx); err != nil {
		log.Fatalf("failed to create slot_claims unique index: %v", err)
	}

	bookingIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("provider_status"),
	}
	if _, err := repo.bookingColl.Indexes().CreateOne(ctx, bookingIdx); err != nil {
		log.Fatalf("failed to create recurring_bookings index: %v", err)
	}

	sessionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "recurringBookingId", Value: 1}, {Key: "sequenceNumber", Value: 1}},
		Options: options.Index().SetName("booking_sequence"),
	}
	if _, err := repo.sessionColl.Indexes().CreateOne(ctx, sessionIdx); err != nil {
		log.Fatalf("failed to create session_instances index: %v", err)
	}
}

// optionsWithArrayFilters builds FindOneAndUpdate options with the given
// array filters.
func optionsWithArrayFilters(filters bson.A) *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetArrayFilters(options.ArrayFilters{Filters: filters})
}
