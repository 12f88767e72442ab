package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-hotel-staff/internal/events"
	"go-hotel-staff/internal/leave"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the slice of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Backoff between attempts at a message whose conflict update failed.
var (
	retryInitialBackoff = 500 * time.Millisecond
	retryMaxBackoff     = 30 * time.Second
)

// ConflictFlagger marks scheduled shifts that now clash with approved leave.
type ConflictFlagger interface {
	FlagLeaveConflicts(ctx context.Context, companyID, staffID string, start, end time.Time) (int64, error)
}

func ConsumeLeaveStatusChanged(
	ctx context.Context,
	reader MessageReader,
	flagger ConflictFlagger,
	logger *zap.Logger,
) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer.leave_status")
	log.Info("leave status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave status consumer stopped")
				return
			}
			log.Error("fetch leave status message failed", zap.Error(err))
			continue
		}

		// Commits are cumulative, so moving on would skip this offset for good.
		if !processUntilDone(ctx, msg, flagger, log) {
			log.Info("leave status consumer stopped", zap.Int64("pending_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave status message failed", zap.Error(err))
		}
	}
}

// processUntilDone retries msg with capped exponential backoff. It returns
// false only when ctx ends first.
func processUntilDone(ctx context.Context, msg kafkago.Message, flagger ConflictFlagger, log *zap.Logger) bool {
	backoff := retryInitialBackoff
	for attempt := 1; ; attempt++ {
		if handleLeaveStatusChanged(ctx, msg, flagger, log) {
			return true
		}
		log.Warn("retrying leave status message",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		if backoff *= 2; backoff > retryMaxBackoff {
			backoff = retryMaxBackoff
		}
	}
}

// handleLeaveStatusChanged reports whether msg is done with and may be
// committed. Only a failed conflict update leaves it uncommitted.
func handleLeaveStatusChanged(ctx context.Context, msg kafkago.Message, flagger ConflictFlagger, log *zap.Logger) bool {
	var event events.LeaveStatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave_status_changed event failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return true
	}

	if event.Status != string(leave.StatusApproved) {
		log.Debug("leave status event ignored",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
		return true
	}

	start, errStart := time.Parse(leave.DateLayout, event.StartDate)
	end, errEnd := time.Parse(leave.DateLayout, event.EndDate)
	if errStart != nil || errEnd != nil {
		log.Error("leave_status_changed event has bad dates, skipping",
			zap.String("leave_id", event.LeaveID),
			zap.String("start_date", event.StartDate),
			zap.String("end_date", event.EndDate),
		)
		return true
	}

	flagged, err := flagger.FlagLeaveConflicts(ctx, event.CompanyID, event.StaffID, start, end)
	if err != nil {
		log.Error("flag schedule conflicts failed",
			zap.String("request_id", event.RequestID),
			zap.String("leave_id", event.LeaveID),
			zap.String("staff_id", event.StaffID),
			zap.Error(err),
		)
		return false
	}

	log.Info("approved leave processed",
		zap.String("request_id", event.RequestID),
		zap.String("leave_id", event.LeaveID),
		zap.String("staff_id", event.StaffID),
		zap.Int64("schedules_flagged", flagged),
	)
	return true
}
