package rbac

import (
	"go-hotel-staff/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw middleware.Stack) {
	group := r.Group("/rbac")
	group.Use(mw.Protected()...)
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/roles", mw.Authorize("role", "read"), handler.ListRoles)
		group.POST("/roles", mw.Authorize("role", "manage"), handler.CreateRole)
		group.PUT("/roles/:id/permissions", mw.Authorize("role", "manage"), handler.UpdateRolePermissions)
		group.POST("/assignments", mw.Authorize("role", "manage"), handler.AssignRole)

		group.GET("/permissions", mw.Authorize("role", "read"), handler.ListPermissions)
	}
}
