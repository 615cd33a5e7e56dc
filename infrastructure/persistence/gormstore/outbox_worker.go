package gormstore

import (
	"context"
	"fmt"
	"time"

	"pizzeria/infrastructure/messaging"
	"pizzeria/pkg/logger"
	"pizzeria/pkg/metrics"

	"go.uber.org/zap"
)

// staleAfter 超过该时长仍处于 PROCESSING 的事件视为 worker 崩溃遗留
const staleAfter = 5 * time.Minute

// OutboxWorker relays committed outbox events to a publisher.
type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    messaging.Publisher
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher messaging.Publisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}, nil
}

// WithMetrics counts published and failed events.
func (w *OutboxWorker) WithMetrics(m *metrics.Metrics) *OutboxWorker {
	w.metrics = m
	return w
}

// Run polls until ctx is cancelled. It always returns ctx.Err().
func (w *OutboxWorker) Run(ctx context.Context) error {
	if released, err := w.repository.ReleaseStale(ctx, staleAfter); err != nil {
		logger.Warn("Failed to release stale outbox events", zap.Error(err))
	} else if released > 0 {
		logger.Info("Released stale outbox events", zap.Int64("count", released))
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", w.pollInterval),
		zap.Int("batch_size", w.batchSize),
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending events and returns how many succeeded.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published, failed := 0, 0
	for _, event := range events {
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		if err := w.publisher.Publish(ctx, event.ToMessage()); err != nil {
			failed++
			logger.Warn("Failed to publish outbox event",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", event.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	w.metrics.OutboxHandled(metrics.OutboxPublished, published)
	w.metrics.OutboxHandled(metrics.OutboxFailed, failed)
	return published, nil
}
