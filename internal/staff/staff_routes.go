package staff

import (
	"go-hotel-staff/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw middleware.Stack) {
	members := r.Group("/staff")
	members.Use(mw.Protected()...)
	{
		members.GET("",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("staff", "read"),
			handler.GetAll,
		)
		members.GET("/options",
			middleware.RateLimitByUser(5, 20),
			mw.Authorize("staff", "read"),
			handler.GetOptions,
		)
		members.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			mw.Authorize("staff", "read"),
			handler.GetById,
		)
		members.POST("",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("staff", "create"),
			mw.Idempotent(),
			handler.Create,
		)
		members.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			mw.Authorize("staff", "update"),
			handler.Update,
		)
		members.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			mw.Authorize("staff", "delete"),
			handler.Delete,
		)
	}
}
