package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/interfaces/http/handlers"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/middleware"
)

type ConnectionRouteConfig struct {
	Handler        *handlers.ConnectionHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupConnectionRoutes(engine *gin.Engine, config *ConnectionRouteConfig) {
	connections := engine.Group("/api/connections")
	connections.Use(config.AuthMiddleware.RequireAuth())
	{
		connections.GET("", config.Handler.List)
		connections.POST("/:platform/disconnect", config.Handler.Disconnect)
		connections.POST("/:platform/refresh", config.Handler.Refresh)
	}
}
