package auth

import (
	"fmt"
	"net/http"
	"strings"

	"tripadmin/internal/apperr"
	"tripadmin/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	claimsContextKey = "claims"
	bearerContextKey = "bearer"
)

// Middleware validates the Authorization bearer token and stores the parsed
// claims plus the raw token (forwarded to the booking API) on the request.
func Middleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Send(c, apperr.New(http.StatusUnauthorized, apperr.ErrorCodeAuth, "authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			apperr.Send(c, apperr.New(http.StatusUnauthorized, apperr.ErrorCodeAuth, "invalid authorization header format, expected: Bearer <token>"))
			c.Abort()
			return
		}
		bearer := strings.TrimSpace(parts[1])

		claims, err := tokens.Validate(bearer)
		if err != nil {
			msg := "invalid access token"
			if tokens.IsExpired(bearer) {
				msg = "access token has expired"
			}
			apperr.Send(c, apperr.New(http.StatusUnauthorized, apperr.ErrorCodeAuth, msg))
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Set(bearerContextKey, bearer)
		c.Next()
	}
}

// RequireRole rejects requests whose claims carry none of the given roles.
// SuperAdmin always passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			apperr.Send(c, apperr.New(http.StatusUnauthorized, apperr.ErrorCodeAuth, "user context not found"))
			c.Abort()
			return
		}

		if claims.HasRole(token.RoleSuperAdmin) {
			c.Next()
			return
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		apperr.Send(c, apperr.New(http.StatusForbidden, apperr.ErrorCodePermission, "access denied"))
		c.Abort()
	}
}

// ClaimsFromContext returns the authenticated claims set by Middleware.
func ClaimsFromContext(c *gin.Context) (*token.Claims, bool) {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// BearerFromContext returns the raw token forwarded to the booking API.
func BearerFromContext(c *gin.Context) string {
	return c.GetString(bearerContextKey)
}

// Scope identifies which cached collection a request reads: SuperAdmin sees
// everything, scoped admins see their own company.
func Scope(claims *token.Claims) string {
	if claims.HasRole(token.RoleSuperAdmin) {
		return "all"
	}
	return fmt.Sprintf("company:%d", claims.CompanyID())
}
