package producer

import (
	"context"
	"time"

	"go-hotel-staff/internal/messaging/kafka"

	"go.uber.org/zap"
)

const (
	batchSize           = 50
	defaultPollInterval = 3 * time.Second
)

// batchResult counts what one relay pass did with the rows it loaded.
type batchResult struct {
	sent   int
	failed int
	dead   int
}

// ProcessOutboxEvents relays outbox rows to Kafka until ctx is cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("outbox.relay")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			res, err := processPendingEvents(ctx, repo, writer, log)
			if err != nil {
				log.Error("load outbox batch", zap.Error(err))
				continue
			}
			if res.sent+res.failed > 0 {
				log.Info("outbox batch relayed",
					zap.Int("sent", res.sent),
					zap.Int("failed", res.failed),
					zap.Int("dead", res.dead),
				)
			}
		}
	}
}

func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	log *zap.Logger,
) (batchResult, error) {
	var res batchResult

	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return res, err
	}

	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.Int("attempt", event.RetryCount+1),
		}

		sendErr := kafka.ValidateOutboxEvent(event)
		if sendErr == nil {
			sendErr = publishEvent(ctx, writer, event)
		}
		if sendErr != nil {
			res.failed++
			if event.RetryCount+1 >= kafka.MaxPublishAttempts {
				res.dead++
				log.Warn("outbox event dead-lettered", append(fields, zap.Error(sendErr))...)
			} else {
				log.Error("outbox publish failed", append(fields, zap.Error(sendErr))...)
			}
			if err := repo.MarkFailed(ctx, event.ID, sendErr.Error()); err != nil {
				log.Error("mark outbox failed", append(fields, zap.Error(err))...)
			}
			continue
		}

		// Published but not marked: the row goes out again next pass.
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			log.Error("mark outbox sent", append(fields, zap.Error(err))...)
		}
		res.sent++
	}

	return res, nil
}
