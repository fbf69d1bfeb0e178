package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tutorly/config"
	"tutorly/models"
	"tutorly/services/notification"
	"tutorly/services/tasks"

	"github.com/hibiken/asynq"
)

// InitNotificationWorker runs the async worker in background. It drains the
// booking-confirmation and session-reminder queues and hands each payload to
// the notification service.
func InitNotificationWorker(notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingConfirmation, handleConfirmationTask(notifSvc))
	mux.HandleFunc(tasks.TypeSessionReminder, handleReminderTask(notifSvc))

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleConfirmationTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload models.BookingConfirmationPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
		return notifSvc.SendBookingConfirmation(ctx, payload)
	}
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload models.SessionReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}
		return notifSvc.SendSessionReminder(ctx, payload)
	}
}
