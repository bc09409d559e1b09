package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/infrastructure/auth"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

// SessionVerifier resolves an access token to the signed-in user.
type SessionVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// AuthMiddleware reads the hosted auth provider's access token from the session
// cookie, falling back to a Bearer header.
type AuthMiddleware struct {
	verifier   SessionVerifier
	cookieName string
	logger     logger.Interface
}

func NewAuthMiddleware(verifier SessionVerifier, cookieName string, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:   verifier,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.extractToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		session, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify session", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid session is present and never aborts.
// The OAuth callback decides for itself what a missing user means.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := m.extractToken(c); ok {
			if session, err := m.verifier.Verify(token); err == nil {
				setSession(c, session)
			} else {
				m.logger.Debugw("ignoring invalid session", "error", err)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if token := utils.GetTokenFromCookie(c, m.cookieName); token != "" {
		return token, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setSession(c *gin.Context, session *auth.Session) {
	c.Set(constants.ContextKeyUserID, session.UserID)
	c.Set(constants.ContextKeyUserEmail, session.Email)
}

// UserID returns the authenticated user id, or an empty string.
func UserID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserID)
}
