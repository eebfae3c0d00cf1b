package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/domain/identity"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
)

// RequireRole lets the request through when check accepts the caller's role.
// It must run after JWTAuthMiddleware.
func RequireRole(check func(identity.Role) bool, denied string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", c.GetString(RequestIDKey)))
			return
		}
		if !check(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, denied, c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// RequireWrite admits administrators and managers
func RequireWrite() gin.HandlerFunc {
	return RequireRole(identity.Role.CanWrite, "Your role is read-only")
}

// RequireFinancials admits roles that may read banker reports
func RequireFinancials() gin.HandlerFunc {
	return RequireRole(identity.Role.CanViewFinancials, "Your role cannot view financial reports")
}

// RequireAdmin admits administrators only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(func(r identity.Role) bool { return r == identity.RoleAdmin }, "Administrator role required")
}

// ReadWriteSplit checks safe methods with read and everything else with
// Role.CanWrite
func ReadWriteSplit(read func(identity.Role) bool) gin.HandlerFunc {
	reader := RequireRole(read, "Your role cannot view these records")
	writer := RequireWrite()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			reader(c)
		default:
			writer(c)
		}
	}
}

// AnyRole accepts every signed-in role
func AnyRole(identity.Role) bool { return true }
