package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/events"
	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/messaging/kafka/consumer"
	"go-hotel-staff/internal/schedule"
	"go-hotel-staff/internal/shared/clock"
	"go-hotel-staff/internal/shared/connection"
	"go-hotel-staff/internal/staff"

	"go.uber.org/zap"
)

const scheduleConsumerGroup = "go-hotel-staff-schedule"

// RunConsumer marks scheduled shifts that clash with newly approved leave.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// the options cache is not needed here, so no redis
	staffService := staff.NewService(sqlDB, staff.NewRepository(gormDB), nil, logger)
	scheduleService := schedule.NewService(
		sqlDB,
		schedule.NewRepository(gormDB),
		leave.NewRepository(gormDB),
		staffService,
		clock.System(cfg.Location()),
		logger,
	)

	reader := connection.NewLeaveStatusReader(cfg.KafkaBroker, events.LeaveStatusChangedTopic, scheduleConsumerGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeLeaveStatusChanged(ctx, reader, scheduleService, logger)

	logger.Info("consumer shutting down")
	return nil
}
