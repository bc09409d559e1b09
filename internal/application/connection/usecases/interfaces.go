package usecases

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

// PlatformConnector runs the OAuth protocol against a single platform.
type PlatformConnector interface {
	RequireClientID() error
	RequireCredentials() error
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (connection.TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (connection.TokenGrant, error)
	FetchHandle(ctx context.Context, accessToken string) (string, error)
	Revoke(ctx context.Context, accessToken string) error
}

// ConnectorProvider builds a connector with the credentials visible at call time.
type ConnectorProvider interface {
	Connector(platform connection.Platform) (PlatformConnector, error)
}

// StateLedger is the server side record of issued OAuth states.
type StateLedger interface {
	Remember(ctx context.Context, platform connection.Platform, state string) error
	// Consume reports whether state was issued and not yet used, and removes it.
	Consume(ctx context.Context, platform connection.Platform, state string) (bool, error)
}

// FlowMetrics receives connection flow outcomes.
type FlowMetrics interface {
	OAuthStarted(platform, outcome string)
	OAuthCallback(platform, outcome string)
	TokenRefreshed(platform, outcome string)
}
