package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stack holds what feature route groups need to assemble their chains.
type Stack struct {
	JWTSecret string
	Logger    *zap.Logger
	Redis     *redis.Client
	RBAC      RBACService
	// UserRateLimit runs after authentication. Build it once so every
	// route group shares the same buckets.
	UserRateLimit gin.HandlerFunc
}

// Protected authenticates the caller and attaches the request logger.
func (s Stack) Protected() []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		AuthMiddleware(s.JWTSecret),
		ContextLogger(s.Logger),
	}
	if s.UserRateLimit != nil {
		chain = append(chain, s.UserRateLimit)
	}
	return chain
}

func (s Stack) Authorize(resource, action string) gin.HandlerFunc {
	return RBACAuthorize(s.RBAC, resource, action)
}

func (s Stack) Idempotent() gin.HandlerFunc {
	return Idempotency(s.Redis, s.Logger)
}
