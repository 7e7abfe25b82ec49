package middleware

import (
	"strings"

	"github.com/Cocorine/backend-sirene-ecole/internal/domain/models"
	"github.com/Cocorine/backend-sirene-ecole/internal/domain/services"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/code"
	"github.com/Cocorine/backend-sirene-ecole/internal/error/response"

	"github.com/gin-gonic/gin"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware injects the authentication service used by the guards
func InitAuthMiddleware(svc services.InterfaceJWTService) {
	jwtService = svc
}

func extractToken(authHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func authenticate(c *gin.Context) (*services.AuthClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c)
		c.Abort()
		return nil, false
	}
	claims, err := jwtService.ValidateToken(extractToken(authHeader))
	if err != nil {
		response.Fail(c, code.ErrTokenInvalid, nil)
		c.Abort()
		return nil, false
	}

	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	if claims.AccountID != nil {
		c.Set("accountID", *claims.AccountID)
	}
	c.Set("claims", claims)
	return claims, true
}

// Authentication requires a valid token of any role
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// AuthenticateAdmin requires the admin role
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if claims.Role != models.RoleAdmin {
			response.Fail(c, code.ErrForbidden, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthenticateTechnicien requires the technician role. Admins pass too.
func AuthenticateTechnicien() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if claims.Role != models.RoleTechnicien && claims.Role != models.RoleAdmin {
			response.Fail(c, code.ErrForbidden, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthenticateEcole requires the school role. Admins pass too.
func AuthenticateEcole() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if claims.Role != models.RoleEcole && claims.Role != models.RoleAdmin {
			response.Fail(c, code.ErrForbidden, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
