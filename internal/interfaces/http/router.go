package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pulseboard/pulseboard/internal/interfaces/http/middleware"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/routes"

	_ "github.com/pulseboard/pulseboard/docs"
)

// Router owns the gin engine and the lifetime of background work.
type Router struct {
	*Container
}

func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Metrics())
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(r.allowedOrigins()))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", r.hdlrs.healthHandler.Health)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupOAuthRoutes(r.engine, &routes.OAuthRouteConfig{
		Handler:        r.hdlrs.oauthConnectHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.rateLimiter,
	})

	routes.SetupConnectionRoutes(r.engine, &routes.ConnectionRouteConfig{
		Handler:        r.hdlrs.connectionHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// allowedOrigins falls back to the dashboard URL; cors rejects an empty list.
func (r *Router) allowedOrigins() []string {
	if len(r.cfg.Server.AllowedOrigins) > 0 {
		return r.cfg.Server.AllowedOrigins
	}
	return []string{r.cfg.Server.BaseURL()}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// StartScheduler starts the token refresh job when enabled.
func (r *Router) StartScheduler() {
	if r.schedulerManager != nil {
		r.schedulerManager.Start()
	}
}

// Shutdown stops background work and closes Redis. The database is closed by the caller.
func (r *Router) Shutdown() {
	if r.schedulerManager != nil {
		if err := r.schedulerManager.Stop(); err != nil {
			r.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			r.log.Errorw("failed to close redis", "error", err)
		}
	}
}
