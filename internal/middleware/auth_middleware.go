package middleware

import (
	"errors"
	"fmt"
	"strings"

	"go-hotel-staff/internal/shared/apperror"
	"go-hotel-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Gin context keys set by AuthMiddleware.
const (
	KeyUserID    = "user_id"
	KeyStaffID   = "staff_id"
	KeyCompanyID = "company_id"
	KeyRole      = "role"
)

// AuthMiddleware verifies an HS256 bearer token (or access_token cookie)
// issued elsewhere and copies its identity claims into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			abortWith(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, ErrInvalidToken)
			return
		}

		identity := map[string]string{}
		for _, key := range []string{KeyUserID, KeyStaffID, KeyCompanyID} {
			v, ok := claims[key].(string)
			if !ok || v == "" {
				response.Error(c, ErrInvalidToken.HTTPStatus, ErrInvalidToken.Code, key+" not found in token", nil)
				c.Abort()
				return
			}
			identity[key] = v
		}

		role, _ := claims[KeyRole].(string)

		c.Set(KeyUserID, identity[KeyUserID])
		c.Set(KeyStaffID, identity[KeyStaffID])
		c.Set(KeyCompanyID, identity[KeyCompanyID])
		c.Set(KeyRole, role)

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
