package producer

import (
	"context"
	"time"

	"go-attendance/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultBatchSize    = 50
)

// Worker relays pending outbox rows to Kafka. Rows that fail are rescheduled
// with backoff by the repository, so a broker outage only delays delivery.
type Worker struct {
	repo         kafka.OutboxRepository
	writer       Writer
	pollInterval time.Duration
	batchSize    int
	logger       *zap.Logger
}

type WorkerOption func(*Worker)

func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

func WithBatchSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func NewWorker(repo kafka.OutboxRepository, writer Writer, logger *zap.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = zap.L()
	}
	w := &Worker{
		repo:         repo,
		writer:       writer,
		pollInterval: DefaultPollInterval,
		batchSize:    DefaultBatchSize,
		logger:       logger.Named("kafka.producer.worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is done. A full batch is followed by another pass right
// away, so the backlog left by a large teardown drains without waiting a tick.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-timer.C:
		}

		next := w.pollInterval
		listed, err := w.Flush(ctx)
		if err != nil {
			w.logger.Error("process outbox events failed", zap.Error(err))
		} else if listed == w.batchSize {
			next = 0
		}
		timer.Reset(next)
	}
}

// Flush publishes one batch and returns how many pending rows it picked up.
func (w *Worker) Flush(ctx context.Context) (int, error) {
	events, err := w.repo.ListPending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	results := publishBatch(ctx, w.writer, events)

	sent := 0
	for i, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("retry_count", event.RetryCount),
		}

		if pubErr := results[i]; pubErr != nil {
			w.logger.Warn("publish outbox event failed", append(fields, zap.Error(pubErr))...)
			if markErr := w.repo.MarkFailed(ctx, event.ID, pubErr.Error()); markErr != nil {
				w.logger.Error("reschedule outbox event failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			// Published but still pending; the next pass sends it again.
			w.logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}
		sent++
		w.logger.Debug("outbox event sent", fields...)
	}

	w.logger.Info("outbox batch processed",
		zap.Int("listed", len(events)),
		zap.Int("sent", sent),
		zap.Int("failed", len(events)-sent),
	)
	return len(events), nil
}
