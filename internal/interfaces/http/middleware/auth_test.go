package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/pulseboard/internal/infrastructure/auth"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

const testCookie = "sb-access-token"

type stubVerifier struct {
	valid map[string]*auth.Session
}

func (s stubVerifier) Verify(token string) (*auth.Session, error) {
	if session, ok := s.valid[token]; ok {
		return session, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthRouter(handler func(m *AuthMiddleware) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(stubVerifier{valid: map[string]*auth.Session{
		"good": {UserID: "user-1", Email: "a@example.com"},
	}}, testCookie, logger.NewNopLogger())

	r := gin.New()
	r.GET("/", handler(m), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newAuthRouter((*AuthMiddleware).RequireAuth)

	tests := []struct {
		name     string
		prepare  func(req *http.Request)
		wantCode int
		wantBody string
	}{
		{
			name:     "cookie",
			prepare:  func(req *http.Request) { req.AddCookie(&http.Cookie{Name: testCookie, Value: "good"}) },
			wantCode: http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "bearer header",
			prepare:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") },
			wantCode: http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "missing token",
			prepare:  func(req *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			prepare:  func(req *http.Request) { req.Header.Set("Authorization", "Token good") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid token",
			prepare:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer bad") },
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth_NeverAborts(t *testing.T) {
	r := newAuthRouter((*AuthMiddleware).OptionalAuth)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "user-1", w.Body.String())
}
