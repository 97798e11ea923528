package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AccessTokenQueryParam carries the token on websocket handshakes
const AccessTokenQueryParam = "access_token"

var (
	ErrStudentOnly = apperrors.NewForbiddenError("Student access required")
	ErrOfficerOnly = apperrors.NewForbiddenError("Officer access required")
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token of the Authorization header
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return m.authenticate(false)
}

// JWTAuthWebSocket also accepts ?access_token= because browsers cannot set
// headers on a websocket handshake. Use it on the upgrade route only.
func (m *AuthMiddleware) JWTAuthWebSocket() gin.HandlerFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		var (
			token string
			err   error
		)
		if header == "" && allowQuery && c.Query(AccessTokenQueryParam) != "" {
			token = c.Query(AccessTokenQueryParam)
		} else {
			token, err = auth.ExtractBearerToken(header)
		}
		if err != nil {
			abortWithError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserID, claims.PrincipalID)
		c.Set(ContextRole, models.RoleType(claims.Role))
		c.Next()
	}
}

// RoleRequired lets only principals of the given role through
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	denied := ErrOfficerOnly
	if role == models.RoleStudent {
		denied = ErrStudentOnly
	}

	return func(c *gin.Context) {
		current, ok := Role(c)
		if !ok {
			abortWithError(c, auth.ErrMissingAuthHeader)
			return
		}
		if current != role {
			abortWithError(c, denied)
			return
		}
		c.Next()
	}
}

// PrincipalID returns the authenticated student or officer id
func PrincipalID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// Role returns the authenticated principal's role
func Role(c *gin.Context) (models.RoleType, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.RoleType)
	return role, ok
}
