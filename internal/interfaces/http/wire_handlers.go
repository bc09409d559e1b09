package http

import (
	"github.com/pulseboard/pulseboard/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	oauthConnectHandler *handlers.OAuthConnectHandler
	connectionHandler   *handlers.ConnectionHandler
	healthHandler       *handlers.HealthHandler
}
