package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/auth"
)

// Context keys set by RequireAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	accessCookie string
}

// NewAuthMiddleware creates a new AuthMiddleware reading the access token
// from the named cookie, or from an Authorization bearer header
func NewAuthMiddleware(jwtService *auth.JWTService, accessCookie string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		accessCookie: accessCookie,
	}
}

// RequireAuth rejects requests without a valid access token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(m.accessCookie)
		if err != nil || tokenString == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				HandleAPIError(c, apperrors.ErrUnauthorized)
				return
			}
			if tokenString, err = auth.ExtractBearerToken(header); err != nil {
				HandleAPIError(c, err)
				return
			}
		}

		claims, err := m.jwtService.ValidateToken(tokenString, auth.TokenTypeAccess)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// GetUserID returns the authenticated user id stored by RequireAuth
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
