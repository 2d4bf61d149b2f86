package workflow

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/sirupsen/logrus"
)

// OutboxDispatcher drains pending outbox rows to Pub/Sub on an interval.
// Delivery is at-least-once: consumers deduplicate on the event id.
type OutboxDispatcher struct {
	Logger      *logrus.Logger
	BatchSize   int
	Interval    time.Duration
	MaxAttempts int
}

func NewOutboxDispatcher(logger *logrus.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		Logger:      logger,
		BatchSize:   intFromEnv("OUTBOX_BATCH_SIZE", 50),
		Interval:    time.Duration(intFromEnv("OUTBOX_INTERVAL_SECONDS", 5)) * time.Second,
		MaxAttempts: intFromEnv("OUTBOX_MAX_ATTEMPTS", 8),
	}
}

func intFromEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

// Run loops until the context is canceled. Call it from a goroutine at
// startup.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.drainOnce(ctx)
		}
	}
}

func (d *OutboxDispatcher) drainOnce(ctx context.Context) {

	records, err := models.FetchPendingOutbox(ctx, d.BatchSize)
	if err != nil {
		config.LogError(d.Logger, "outboxDispatcher.go", "drainOnce", "FetchPendingOutbox", nil, err)
		return
	}

	for _, record := range records {
		if ctx.Err() != nil {
			return
		}
		if err := config.PublishEvent(record.ToEventMessage()); err != nil {
			config.LogError(d.Logger, "outboxDispatcher.go", "drainOnce", "PublishEvent", record.ID, err)
			if markErr := models.MarkOutboxFailed(ctx, record.ID, record.Attempts, d.MaxAttempts); markErr != nil {
				config.LogError(d.Logger, "outboxDispatcher.go", "drainOnce", "MarkOutboxFailed", record.ID, markErr)
			}
			continue
		}
		if err := models.MarkOutboxPublished(ctx, record.ID); err != nil {
			config.LogError(d.Logger, "outboxDispatcher.go", "drainOnce", "MarkOutboxPublished", record.ID, err)
		}
	}
}

// ReplayDeadEvents requeues dead records, typically from an admin endpoint
// after the downstream issue is fixed.
func ReplayDeadEvents(ctx context.Context, ids []int) (int64, error) {
	return models.RevertDeadOutbox(ctx, ids)
}
