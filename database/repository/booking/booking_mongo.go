package bookingRepo

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

// MongoBookingRepo is the MongoDB-backed BookingRepository.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	claimColl   *mongo.Collection
	sessionColl *mongo.Collection
}

// NewMongoBookingRepo constructs the repository and ensures the slot-claim
// uniqueness index exists.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	repo := &MongoBookingRepo{
		bookingColl: db.Collection("recurring_bookings"),
		claimColl:   db.Collection("slot_claims"),
		sessionColl: db.Collection("session_instances"),
	}
	repo.ensureIndexes()
	return repo
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.RecurringBooking, error) {
	var booking models.RecurringBooking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) GetActiveByProvider(ctx context.Context, providerID string) ([]models.RecurringBooking, error) {
	filter := bson.M{
		"providerId": providerID,
		"status":     bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusRescheduled}},
	}
	cur, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query active bookings for provider %s: %w", providerID, err)
	}
	defer cur.Close(ctx)

	var bookings []models.RecurringBooking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings for provider %s: %w", providerID, err)
	}
	return bookings, nil
}

// Cancel soft-closes the booking, releases its slot claims, and cancels any
// still-scheduled instances, all in one transaction.
func (repo *MongoBookingRepo) Cancel(ctx context.Context, bookingID string) error {
	txnFn := func(sc mongo.SessionContext) error {
		res, err := repo.bookingColl.UpdateOne(sc,
			bson.M{"id": bookingID, "status": bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusRescheduled}}},
			bson.M{"$set": bson.M{"status": models.BookingStatusCancelled, "updatedAt": time.Now().UTC()}},
		)
		if err != nil {
			return fmt.Errorf("cancel booking update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		if _, err := repo.claimColl.DeleteMany(sc, bson.M{"bookingId": bookingID}); err != nil {
			return fmt.Errorf("release slot claims failed: %w", err)
		}

		_, err = repo.sessionColl.UpdateMany(sc,
			bson.M{"recurringBookingId": bookingID, "status": models.SessionStatusScheduled},
			bson.M{"$set": bson.M{"status": models.SessionStatusCancelled}},
		)
		if err != nil {
			return fmt.Errorf("cancel remaining sessions failed: %w", err)
		}
		return nil
	}

	return repo.runInTransaction(ctx, txnFn)
}

// runInTransaction executes txnFn inside a mongo session transaction.
func (repo *MongoBookingRepo) runInTransaction(ctx context.Context, txnFn func(mongo.SessionContext) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
