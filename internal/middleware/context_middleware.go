package middleware

import (
	"go-hotel-staff/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger moves the request id, token identity and a decorated logger
// from gin into the request context.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	return func(c *gin.Context) {
		rid := c.GetString(KeyRequestID)
		if rid == "" {
			rid = c.GetHeader(HeaderRequestID)
		}
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Header(HeaderRequestID, rid)

		id := contextutil.Identity{
			UserID:    c.GetString(KeyUserID),
			StaffID:   c.GetString(KeyStaffID),
			CompanyID: c.GetString(KeyCompanyID),
		}

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("user_id", id.UserID),
			zap.String("staff_id", id.StaffID),
			zap.String("company_id", id.CompanyID),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithIdentity(ctx, id)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
