package app

import (
	"net/http"

	"go-hotel-staff/internal/config"
	"go-hotel-staff/internal/middleware"
	"go-hotel-staff/internal/shared/connection"
	"go-hotel-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NewRouter builds the engine with the middleware every route shares.
func NewRouter(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})
	return r
}

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	// 2. Register Modules & Routes
	svc, err := buildServices(cfg, sqlDB, gormDB, redisClient, logger)
	if err != nil {
		cleanup()
		return nil, err
	}
	registerModules(router, cfg, svc, redisClient, logger)

	logger.Info("modules registered",
		zap.String("env", cfg.Environment),
		zap.String("calendar_tz", cfg.Location().String()),
	)

	return cleanup, nil
}
