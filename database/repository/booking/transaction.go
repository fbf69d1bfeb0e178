package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"tutorly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommitBooking inserts the slot claims, the booking, and its generated
// session instances as a single atomic unit. The unique index on
// (providerId, day, time) makes the claim inserts the authoritative conflict
// check: if another booking committed any of these slots first, the insert
// fails with a duplicate key error and the whole transaction aborts, so a
// concurrent duplicate can never silently succeed.
func (repo *MongoBookingRepo) CommitBooking(ctx context.Context, booking *models.RecurringBooking, sessions []models.SessionInstance) error {
	txnFn := func(sc mongo.SessionContext) error {
		claims := make([]interface{}, 0, len(booking.Slots))
		for _, slot := range booking.Slots {
			claims = append(claims, models.SlotClaim{
				ProviderID: booking.ProviderID,
				Day:        slot.Day,
				Time:       slot.Time,
				BookingID:  booking.ID,
			})
		}
		if _, err := repo.claimColl.InsertMany(sc, claims); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert slot claims failed: %w", err)
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		docs := make([]interface{}, 0, len(sessions))
		for _, s := range sessions {
			docs = append(docs, s)
		}
		if _, err := repo.sessionColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert session instances failed: %w", err)
		}
		return nil
	}

	if err := repo.runInTransaction(ctx, txnFn); err != nil {
		return err
	}
	return nil
}

// SwapSlot atomically moves one weekly slot of a booking: the old claim is
// released, the new one claimed, the booking's slot entry rewritten, and the
// given future instances retargeted. The same unique index that guards
// CommitBooking guards the new claim here, so an accept whose proposed slot
// has since been taken fails instead of silently overwriting.
func (repo *MongoBookingRepo) SwapSlot(ctx context.Context, bookingID string, from, to models.BookableSlot, moves []SessionMove) error {
	txnFn := func(sc mongo.SessionContext) error {
		var booking models.RecurringBooking
		if err := repo.bookingColl.FindOne(sc, bson.M{"id": bookingID}).Decode(&booking); err != nil {
			return ErrNotFound
		}

		res, err := repo.claimColl.DeleteOne(sc, bson.M{
			"bookingId": bookingID,
			"day":       from.Day,
			"time":      from.Time,
		})
		if err != nil {
			return fmt.Errorf("release old slot claim failed: %w", err)
		}
		if res.DeletedCount == 0 {
			return fmt.Errorf("booking %s holds no claim on %s %d", bookingID, from.Day, from.Time)
		}

		claim := models.SlotClaim{
			ProviderID: booking.ProviderID,
			Day:        to.Day,
			Time:       to.Time,
			BookingID:  bookingID,
		}
		if _, err := repo.claimColl.InsertOne(sc, claim); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert new slot claim failed: %w", err)
		}

		update := bson.M{
			"$set": bson.M{
				"slots.$[old]": to,
				"status":       models.BookingStatusRescheduled,
				"updatedAt":    time.Now().UTC(),
			},
		}
		arrayFilters := bson.A{bson.M{"old.day": from.Day, "old.time": from.Time}}
		upRes := repo.bookingColl.FindOneAndUpdate(sc, bson.M{"id": bookingID}, update,
			optionsWithArrayFilters(arrayFilters))
		if upRes.Err() != nil {
			return fmt.Errorf("rewrite booking slot failed: %w", upRes.Err())
		}

		for _, mv := range moves {
			_, err := repo.sessionColl.UpdateOne(sc,
				bson.M{"id": mv.SessionID, "status": models.SessionStatusScheduled},
				bson.M{"$set": bson.M{"date": mv.Date, "day": mv.Day, "time": mv.Time}},
			)
			if err != nil {
				return fmt.Errorf("retarget session %s failed: %w", mv.SessionID, err)
			}
		}
		return nil
	}

	return repo.runInTransaction(ctx, txnFn)
}
