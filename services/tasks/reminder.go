package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gclient/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "invoice:reminder"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.InvoiceID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// ParseReminderTask decodes the payload of a reminder task.
func ParseReminderTask(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if p.InvoiceID == "" {
		return p, fmt.Errorf("invalid reminder payload: missing invoiceId")
	}
	return p, nil
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues invoice reminders on the asynq queue.
type ReminderScheduler struct {
	client Enqueuer
}

func NewReminderScheduler(client Enqueuer) *ReminderScheduler {
	return &ReminderScheduler{client: client}
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder for invoice %s: %w", payload.InvoiceID, err)
	}
	return nil
}
