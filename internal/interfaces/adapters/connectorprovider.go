package adapters

import (
	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
)

// ConnectorProviderAdapter exposes the oauth connector manager to the connection use cases.
type ConnectorProviderAdapter struct {
	manager *oauth.ConnectorManager
}

func NewConnectorProviderAdapter(manager *oauth.ConnectorManager) *ConnectorProviderAdapter {
	return &ConnectorProviderAdapter{manager: manager}
}

func (a *ConnectorProviderAdapter) Connector(platform connection.Platform) (usecases.PlatformConnector, error) {
	c, err := a.manager.Connector(platform)
	if err != nil {
		// avoid returning a typed nil inside the interface
		return nil, err
	}
	return c, nil
}

var _ usecases.ConnectorProvider = (*ConnectorProviderAdapter)(nil)
