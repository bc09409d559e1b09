package oauth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

const (
	defaultExchangeTimeout = 10 * time.Second
	defaultProfileTimeout  = 5 * time.Second
)

// ConnectorManager hands out per-request connectors built from the static
// provider table and the credentials visible at that moment.
type ConnectorManager struct {
	specs           map[connection.Platform]ProviderSpec
	credentials     CredentialSource
	appURL          string
	httpClient      *http.Client
	exchangeTimeout time.Duration
	profileTimeout  time.Duration
	now             biztime.Clock
	logger          logger.Interface
}

type ManagerOption func(*ConnectorManager)

// WithProviderSpecs replaces the provider table, e.g. to point at stub servers.
func WithProviderSpecs(specs map[connection.Platform]ProviderSpec) ManagerOption {
	return func(m *ConnectorManager) {
		m.specs = specs
	}
}

func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *ConnectorManager) {
		m.httpClient = client
	}
}

func WithTimeouts(exchange, profile time.Duration) ManagerOption {
	return func(m *ConnectorManager) {
		if exchange > 0 {
			m.exchangeTimeout = exchange
		}
		if profile > 0 {
			m.profileTimeout = profile
		}
	}
}

func WithClock(now biztime.Clock) ManagerOption {
	return func(m *ConnectorManager) {
		m.now = now
	}
}

// NewConnectorManager creates a manager. appURL is the public base URL used for redirect URIs.
func NewConnectorManager(appURL string, credentials CredentialSource, log logger.Interface, opts ...ManagerOption) *ConnectorManager {
	m := &ConnectorManager{
		specs:           DefaultProviderSpecs(),
		credentials:     credentials,
		appURL:          strings.TrimRight(appURL, "/"),
		httpClient:      &http.Client{},
		exchangeTimeout: defaultExchangeTimeout,
		profileTimeout:  defaultProfileTimeout,
		now:             biztime.NowUTC,
		logger:          log,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger.Infow("oauth connector manager initialized",
		"app_url", m.appURL,
		"platforms", len(m.specs),
		"exchange_timeout", m.exchangeTimeout,
		"profile_timeout", m.profileTimeout,
	)
	return m
}

// RedirectURL returns {appURL}/api/oauth/{platform}/callback.
func (m *ConnectorManager) RedirectURL(platform connection.Platform) string {
	return fmt.Sprintf("%s/api/oauth/%s/callback", m.appURL, platform)
}

// Connector returns a connector for platform. Credentials are not validated here.
func (m *ConnectorManager) Connector(platform connection.Platform) (*Connector, error) {
	spec, ok := m.specs[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", connection.ErrUnknownPlatform, platform)
	}

	creds := m.credentials.Credentials(platform)
	return &Connector{
		spec:  spec,
		creds: creds,
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     spec.Endpoint,
			RedirectURL:  m.RedirectURL(platform),
			Scopes:       spec.scopeParam(),
		},
		httpClient:      m.httpClient,
		exchangeTimeout: m.exchangeTimeout,
		profileTimeout:  m.profileTimeout,
		now:             m.now,
	}, nil
}
