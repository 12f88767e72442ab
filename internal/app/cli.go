package app

import (
	"context"

	"go-hotel-staff/internal/cli"
	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/schedule"
	"go-hotel-staff/internal/shared/connection"

	"go.uber.org/zap"
)

type cliBackend struct {
	leaves    leave.Service
	schedules schedule.Service
}

func (b cliBackend) GetBalance(ctx context.Context, companyID, staffID string) (leave.BalanceResponse, error) {
	return b.leaves.GetBalance(ctx, companyID, staffID)
}

func (b cliBackend) GetUnavailableStaff(ctx context.Context, companyID, date string) (leave.UnavailableResponse, error) {
	return b.leaves.GetUnavailableStaff(ctx, companyID, date)
}

func (b cliBackend) Export(ctx context.Context, companyID string, filter leave.ListFilter) ([]byte, error) {
	return b.leaves.Export(ctx, companyID, filter)
}

func (b cliBackend) GetWeek(ctx context.Context, companyID string, offset int) (schedule.WeekResponse, error) {
	return b.schedules.GetWeek(ctx, companyID, offset)
}

// NewCLIBackend connects to the database only. The read and export commands
// need neither Redis nor Kafka.
func NewCLIBackend(ctx context.Context, cfg config.Config) (cli.Backend, func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, 1)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}

	svc, err := buildServices(cfg, sqlDB, gormDB, nil, zap.L())
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	return cliBackend{leaves: svc.leave, schedules: svc.schedule}, func() { _ = sqlDB.Close() }, nil
}
