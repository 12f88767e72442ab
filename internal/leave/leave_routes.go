package leave

import (
	"go-hotel-staff/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw middleware.Stack) {
	leaves := r.Group("/leaves")
	leaves.Use(mw.Protected()...)
	{
		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("leave", "read"),
			handler.GetAll,
		)
		leaves.GET("/export",
			middleware.RateLimitByUser(0.2, 2),
			mw.Authorize("leave", "export"),
			handler.Export,
		)
		leaves.GET("/unavailable",
			middleware.RateLimitByUser(5, 20),
			mw.Authorize("leave", "read"),
			handler.GetUnavailable,
		)
		leaves.GET("/balance/:staff_id",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("leave", "read"),
			handler.GetBalance,
		)
		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("leave", "read"),
			handler.GetById,
		)
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("leave", "create"),
			mw.Idempotent(),
			handler.Create,
		)
		leaves.POST("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			mw.Authorize("leave", "approve"),
			mw.Idempotent(),
			handler.Approve,
		)
		leaves.POST("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			mw.Authorize("leave", "approve"),
			mw.Idempotent(),
			handler.Reject,
		)
		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("leave", "create"),
			handler.Withdraw,
		)
	}
}
