package middleware

import (
	"net/http"

	"go-hotel-staff/internal/domain"
	"go-hotel-staff/internal/shared/apperror"
	"go-hotel-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is anything that can answer an enforce request.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := c.GetString(KeyStaffID)
		companyID := c.GetString(KeyCompanyID)
		if staffID == "" || companyID == "" {
			abortWith(c, ErrMissingAuthContext)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			StaffID:   staffID,
			CompanyID: companyID,
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			abortWith(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				apperror.ErrForbidden.Message, gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
