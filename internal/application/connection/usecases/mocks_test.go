package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testLogger() logger.Interface { return logger.NewNopLogger() }

type mockConnectionRepository struct {
	UpsertFunc               func(ctx context.Context, c *connection.PlatformConnection) error
	UpdateFunc               func(ctx context.Context, c *connection.PlatformConnection) error
	GetByUserAndPlatformFunc func(ctx context.Context, userID string, platform connection.Platform) (*connection.PlatformConnection, error)
	ListByUserFunc           func(ctx context.Context, userID string) ([]*connection.PlatformConnection, error)
	ListExpiringFunc         func(ctx context.Context, before time.Time, limit int) ([]*connection.PlatformConnection, error)

	upsertCalls int
	updateCalls int
}

func (m *mockConnectionRepository) Upsert(ctx context.Context, c *connection.PlatformConnection) error {
	m.upsertCalls++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, c)
	}
	return nil
}

func (m *mockConnectionRepository) Update(ctx context.Context, c *connection.PlatformConnection) error {
	m.updateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockConnectionRepository) GetByUserAndPlatform(ctx context.Context, userID string, platform connection.Platform) (*connection.PlatformConnection, error) {
	if m.GetByUserAndPlatformFunc != nil {
		return m.GetByUserAndPlatformFunc(ctx, userID, platform)
	}
	return nil, nil
}

func (m *mockConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*connection.PlatformConnection, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockConnectionRepository) ListExpiring(ctx context.Context, before time.Time, limit int) ([]*connection.PlatformConnection, error) {
	if m.ListExpiringFunc != nil {
		return m.ListExpiringFunc(ctx, before, limit)
	}
	return nil, nil
}

type mockConnector struct {
	RequireClientIDFunc    func() error
	RequireCredentialsFunc func() error
	AuthCodeURLFunc        func(state string) string
	ExchangeFunc           func(ctx context.Context, code string) (connection.TokenGrant, error)
	RefreshFunc            func(ctx context.Context, refreshToken string) (connection.TokenGrant, error)
	FetchHandleFunc        func(ctx context.Context, accessToken string) (string, error)
	RevokeFunc             func(ctx context.Context, accessToken string) error

	exchangeCalls int
	refreshCalls  int
	revokeCalls   int
}

func (m *mockConnector) RequireClientID() error {
	if m.RequireClientIDFunc != nil {
		return m.RequireClientIDFunc()
	}
	return nil
}

func (m *mockConnector) RequireCredentials() error {
	if m.RequireCredentialsFunc != nil {
		return m.RequireCredentialsFunc()
	}
	return nil
}

func (m *mockConnector) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://provider.test/authorize?state=" + state
}

func (m *mockConnector) Exchange(ctx context.Context, code string) (connection.TokenGrant, error) {
	m.exchangeCalls++
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return connection.TokenGrant{AccessToken: "access-" + code}, nil
}

func (m *mockConnector) Refresh(ctx context.Context, refreshToken string) (connection.TokenGrant, error) {
	m.refreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return connection.TokenGrant{AccessToken: "refreshed"}, nil
}

func (m *mockConnector) FetchHandle(ctx context.Context, accessToken string) (string, error) {
	if m.FetchHandleFunc != nil {
		return m.FetchHandleFunc(ctx, accessToken)
	}
	return "Acme", nil
}

func (m *mockConnector) Revoke(ctx context.Context, accessToken string) error {
	m.revokeCalls++
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, accessToken)
	}
	return nil
}

type mockConnectorProvider struct {
	ConnectorFunc func(platform connection.Platform) (PlatformConnector, error)
	connector     *mockConnector
}

func (m *mockConnectorProvider) Connector(platform connection.Platform) (PlatformConnector, error) {
	if m.ConnectorFunc != nil {
		return m.ConnectorFunc(platform)
	}
	return m.connector, nil
}

func providerFor(c *mockConnector) *mockConnectorProvider {
	return &mockConnectorProvider{connector: c}
}

// managerProvider serves connectors from a real oauth manager.
type managerProvider struct {
	manager *oauth.ConnectorManager
}

func (m *managerProvider) Connector(platform connection.Platform) (PlatformConnector, error) {
	c, err := m.manager.Connector(platform)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// memoryLedger mimics the Redis ledger: each state can be consumed once.
type memoryLedger struct {
	mu     sync.Mutex
	states map[string]bool

	RememberErr error
	ConsumeErr  error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{states: make(map[string]bool)}
}

func (l *memoryLedger) Remember(_ context.Context, platform connection.Platform, state string) error {
	if l.RememberErr != nil {
		return l.RememberErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[platform.String()+":"+state] = true
	return nil
}

func (l *memoryLedger) Consume(_ context.Context, platform connection.Platform, state string) (bool, error) {
	if l.ConsumeErr != nil {
		return false, l.ConsumeErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := platform.String() + ":" + state
	if !l.states[key] {
		return false, nil
	}
	delete(l.states, key)
	return true, nil
}

type metricEvent struct {
	kind     string
	platform string
	outcome  string
}

type recordingMetrics struct {
	events []metricEvent
}

func (m *recordingMetrics) OAuthStarted(platform, outcome string) {
	m.events = append(m.events, metricEvent{"start", platform, outcome})
}

func (m *recordingMetrics) OAuthCallback(platform, outcome string) {
	m.events = append(m.events, metricEvent{"callback", platform, outcome})
}

func (m *recordingMetrics) TokenRefreshed(platform, outcome string) {
	m.events = append(m.events, metricEvent{"refresh", platform, outcome})
}

func (m *recordingMetrics) last() metricEvent {
	if len(m.events) == 0 {
		return metricEvent{}
	}
	return m.events[len(m.events)-1]
}
