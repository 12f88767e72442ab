package schedule

import (
	"go-hotel-staff/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw middleware.Stack) {
	schedules := r.Group("/schedules")
	schedules.Use(mw.Protected()...)
	{
		schedules.GET("",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("schedule", "read"),
			handler.GetWeek,
		)
		schedules.GET("/availability",
			middleware.RateLimitByUser(5, 20),
			mw.Authorize("schedule", "read"),
			handler.GetAvailability,
		)
		schedules.POST("",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("schedule", "create"),
			mw.Idempotent(),
			handler.Create,
		)
		schedules.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("schedule", "delete"),
			handler.Delete,
		)
	}
}
