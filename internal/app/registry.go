package app

import (
	"database/sql"

	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/messaging/kafka"
	"go-hotel-staff/internal/middleware"
	"go-hotel-staff/internal/rbac"
	"go-hotel-staff/internal/rbac/infra"
	"go-hotel-staff/internal/schedule"
	"go-hotel-staff/internal/shared/clock"
	"go-hotel-staff/internal/shared/counter"
	"go-hotel-staff/internal/staff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// services are the domain services shared by the API and the consumer.
type services struct {
	rbac     rbac.Service
	staff    staff.Service
	leave    leave.Service
	schedule schedule.Service
}

func buildServices(cfg config.Config, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client, logger *zap.Logger) (services, error) {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.CasbinModelPath)
	if err != nil {
		return services{}, err
	}

	clk := clock.System(cfg.Location())

	staffService := staff.NewService(db, staffRepo, rdb, logger)
	return services{
		rbac:     rbac.NewService(rbacRepo, enforcer, logger),
		staff:    staffService,
		leave:    leave.NewService(db, leaveRepo, staffRepo, counterRepo, outboxRepo, clk, logger),
		schedule: schedule.NewService(db, scheduleRepo, leaveRepo, staffService, clk, logger),
	}, nil
}

func registerModules(router *gin.Engine, cfg config.Config, svc services, rdb *redis.Client, logger *zap.Logger) {
	mw := middleware.Stack{
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
		Redis:     rdb,
		RBAC:      svc.rbac,

		UserRateLimit: middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}

	// --- Handlers ---
	staffHandler := staff.NewHandler(svc.staff, logger)
	leaveHandler := leave.NewHandler(svc.leave, logger)
	scheduleHandler := schedule.NewHandler(svc.schedule, logger)
	rbacHandler := rbac.NewHandler(svc.rbac, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		staff.RegisterRoutes(api, staffHandler, mw)
		leave.RegisterRoutes(api, leaveHandler, mw)
		schedule.RegisterRoutes(api, scheduleHandler, mw)
		rbac.RegisterRoutes(api, rbacHandler, mw)
	}
}
