package tasks

import (
	"encoding/json"
	"time"

	"tutorly/config"
	"tutorly/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "booking:confirmation"
	TypeSessionReminder     = "session:reminder"
)

// NewBookingConfirmationTask queues the post-commit confirmation handoff.
func NewBookingConfirmationTask(payload models.BookingConfirmationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmation, b), nil
}

// NewSessionReminderTask queues a reminder to fire at the given time.
func NewSessionReminderTask(payload models.SessionReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// NewQueueClient returns an asynq client bound to the configured Redis queue.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}
