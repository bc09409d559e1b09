package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/interfaces/http/handlers"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/middleware"
)

type OAuthRouteConfig struct {
	Handler        *handlers.OAuthConnectHandler
	AuthMiddleware *middleware.AuthMiddleware
	// RateLimiter may be nil.
	RateLimiter *middleware.RateLimiter
}

// SetupOAuthRoutes registers the browser redirect routes.
func SetupOAuthRoutes(engine *gin.Engine, config *OAuthRouteConfig) {
	oauth := engine.Group("/api/oauth/:platform")

	start := []gin.HandlerFunc{}
	if config.RateLimiter != nil {
		start = append(start, config.RateLimiter.Limit())
	}
	start = append(start, config.Handler.Start)
	oauth.GET("/start", start...)

	// The user is resolved inside the callback, after the state and token checks.
	oauth.GET("/callback",
		config.AuthMiddleware.OptionalAuth(),
		config.Handler.Callback)
}
