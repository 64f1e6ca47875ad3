package cron

import (
	"context"
	"errors"
	"time"

	"gclient/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderSender delivers the reminder for one invoice.
type ReminderSender interface {
	SendDueReminder(ctx context.Context, invoiceID string) error
}

// ReminderWorker consumes invoice reminder tasks.
type ReminderWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	redis  *redis.Client
	logger *zap.Logger
}

// NewReminderWorker builds the asynq server. monitor is pinged periodically and may be nil.
func NewReminderWorker(opts asynq.RedisClientOpt, sender ReminderSender, monitor *redis.Client, logger *zap.Logger) *ReminderWorker {
	srv := asynq.NewServer(
		opts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(sender, logger))

	return &ReminderWorker{srv: srv, mux: mux, redis: monitor, logger: logger}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *ReminderWorker) Start(ctx context.Context) {
	if w.redis != nil {
		go monitorRedisConnection(ctx, w.redis, w.logger)
	}

	go func() {
		w.logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Error("Reminder worker giving up, reminders will not be delivered")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
}

// Shutdown stops fetching tasks and waits for in-flight ones.
func (w *ReminderWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleReminderTask(sender ReminderSender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReminderTask(task)
		if err != nil {
			logger.Error("Dropping reminder task", zap.Error(err))
			return errors.Join(err, asynq.SkipRetry)
		}

		logger.Info("Sending payment reminder",
			zap.String("invoiceId", p.InvoiceID),
			zap.Time("fireDate", p.FireDate),
		)
		if err := sender.SendDueReminder(ctx, p.InvoiceID); err != nil {
			logger.Error("Payment reminder failed", zap.String("invoiceId", p.InvoiceID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Reminder queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
