package usecases

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
)

const testUserID = "5b3c1a9e-1111-4c3e-9a1d-000000000001"

type callbackFixture struct {
	connector *mockConnector
	ledger    *memoryLedger
	repo      *mockConnectionRepository
	metrics   *recordingMetrics
	uc        *HandleConnectionCallbackUseCase
	stored    []*connection.PlatformConnection
}

func newCallbackFixture(t *testing.T) *callbackFixture {
	t.Helper()
	f := &callbackFixture{
		connector: &mockConnector{},
		ledger:    newMemoryLedger(),
		metrics:   &recordingMetrics{},
	}
	f.repo = &mockConnectionRepository{
		UpsertFunc: func(ctx context.Context, c *connection.PlatformConnection) error {
			f.stored = append(f.stored, c)
			return nil
		},
	}
	f.uc = NewHandleConnectionCallbackUseCase(providerFor(f.connector), f.ledger, f.repo, f.metrics, fixedClock, testLogger())
	return f
}

// issue records state in the ledger the way the start step does.
func (f *callbackFixture) issue(t *testing.T, platform connection.Platform, state string) {
	t.Helper()
	require.NoError(t, f.ledger.Remember(context.Background(), platform, state))
}

func validCallback(platform string) HandleConnectionCallbackCommand {
	return HandleConnectionCallbackCommand{
		Platform:    platform,
		Code:        "auth-code",
		State:       "state-abc",
		CookieState: "state-abc",
		UserID:      testUserID,
	}
}

func requireReason(t *testing.T, err error, reason string, status int) *apperrors.ConnectionError {
	t.Helper()
	require.Error(t, err)
	connErr := apperrors.GetConnectionError(err)
	require.NotNil(t, connErr, "expected a connection error, got %v", err)
	assert.Equal(t, reason, connErr.Reason)
	assert.Equal(t, status, connErr.Code)
	return connErr
}

func TestHandleConnectionCallbackUseCase_Execute_Success(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.YouTube, "state-abc")

	expires := fixedNow.Add(time.Hour)
	f.connector.ExchangeFunc = func(ctx context.Context, code string) (connection.TokenGrant, error) {
		assert.Equal(t, "auth-code", code)
		return connection.TokenGrant{
			AccessToken:  "ya29.token",
			RefreshToken: "1//refresh",
			ExpiresAt:    &expires,
			Scope:        "youtube.readonly",
		}, nil
	}
	f.connector.FetchHandleFunc = func(ctx context.Context, accessToken string) (string, error) {
		assert.Equal(t, "ya29.token", accessToken)
		return "Acme Channel", nil
	}

	result, err := f.uc.Execute(context.Background(), validCallback("youtube"))
	require.NoError(t, err)

	assert.False(t, result.UsedFallbackHandle)
	require.Len(t, f.stored, 1)
	stored := f.stored[0]
	assert.Equal(t, testUserID, stored.UserID)
	assert.Equal(t, connection.YouTube, stored.Platform)
	assert.Equal(t, connection.StatusConnected, stored.Status)
	assert.Equal(t, "Acme Channel", stored.Handle)
	assert.Equal(t, "ya29.token", stored.AccessToken)
	assert.Equal(t, "1//refresh", stored.RefreshToken)
	assert.Equal(t, expires, *stored.TokenExpiresAt)
	assert.Equal(t, "youtube.readonly", stored.Scope)
	assert.Equal(t, fixedNow, *stored.LastSynced)
	assert.Equal(t, "YouTube", stored.Display.Name)

	assert.Equal(t, metricEvent{"callback", "youtube", "connected"}, f.metrics.last())
}

func TestHandleConnectionCallbackUseCase_Execute_StateMismatchNeverExchanges(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.Facebook, "state-abc")

	cmd := validCallback("facebook")
	cmd.State = "state-forged"

	_, err := f.uc.Execute(context.Background(), cmd)
	requireReason(t, err, "invalid_state", http.StatusBadRequest)

	assert.Equal(t, 0, f.connector.exchangeCalls)
	assert.Equal(t, 0, f.repo.upsertCalls)
}

func TestHandleConnectionCallbackUseCase_Execute_MissingCookie(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.Facebook, "state-abc")

	cmd := validCallback("facebook")
	cmd.CookieState = ""

	_, err := f.uc.Execute(context.Background(), cmd)
	requireReason(t, err, "expired_state", http.StatusBadRequest)
	assert.Equal(t, 0, f.connector.exchangeCalls)
}

func TestHandleConnectionCallbackUseCase_Execute_ReplayRejected(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.LinkedIn, "state-abc")

	_, err := f.uc.Execute(context.Background(), validCallback("linkedin"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validCallback("linkedin"))
	requireReason(t, err, "expired_state", http.StatusBadRequest)

	assert.Equal(t, 1, f.connector.exchangeCalls)
	assert.Equal(t, 1, f.repo.upsertCalls)
}

func TestHandleConnectionCallbackUseCase_Execute_LedgerErrorFailsClosed(t *testing.T) {
	f := newCallbackFixture(t)
	f.ledger.ConsumeErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), validCallback("instagram"))
	requireReason(t, err, "expired_state", http.StatusBadRequest)
	assert.Equal(t, 0, f.connector.exchangeCalls)
}

func TestHandleConnectionCallbackUseCase_Execute_ProtocolFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cmd *HandleConnectionCallbackCommand)
		reason string
		status int
	}{
		{
			name:   "unknown platform",
			mutate: func(cmd *HandleConnectionCallbackCommand) { cmd.Platform = "myspace" },
			reason: "unknown_platform",
			status: http.StatusBadRequest,
		},
		{
			name:   "provider denied",
			mutate: func(cmd *HandleConnectionCallbackCommand) { cmd.Error = "access_denied"; cmd.Code = "" },
			reason: "access_denied",
			status: http.StatusBadRequest,
		},
		{
			name: "provider error not in catalogue",
			mutate: func(cmd *HandleConnectionCallbackCommand) {
				cmd.Error = "temporarily_unavailable"
				cmd.ErrorDescription = "try later"
			},
			reason: "provider_error",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing code",
			mutate: func(cmd *HandleConnectionCallbackCommand) { cmd.Code = "" },
			reason: "missing_code",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing state",
			mutate: func(cmd *HandleConnectionCallbackCommand) { cmd.State = "" },
			reason: "missing_state",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCallbackFixture(t)
			f.issue(t, connection.Instagram, "state-abc")

			cmd := validCallback("instagram")
			tt.mutate(&cmd)

			_, err := f.uc.Execute(context.Background(), cmd)
			requireReason(t, err, tt.reason, tt.status)
			assert.Equal(t, 0, f.connector.exchangeCalls)
			assert.Equal(t, 0, f.repo.upsertCalls)
		})
	}
}

func TestHandleConnectionCallbackUseCase_Execute_ProviderErrorDescriptionIsSanitized(t *testing.T) {
	f := newCallbackFixture(t)

	cmd := validCallback("facebook")
	cmd.Error = "weird_error"
	cmd.ErrorDescription = "<script>alert(1)</script>Bad things"

	_, err := f.uc.Execute(context.Background(), cmd)
	connErr := requireReason(t, err, "provider_error", http.StatusBadRequest)
	assert.NotContains(t, connErr.Message, "<script>")
	assert.Contains(t, connErr.Message, "Bad things")
}

func TestHandleConnectionCallbackUseCase_Execute_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		envName string
		reason  string
	}{
		{name: "client id", envName: "FACEBOOK_CLIENT_ID", reason: "missing_client_id"},
		{name: "client secret", envName: "FACEBOOK_CLIENT_SECRET", reason: "missing_client_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCallbackFixture(t)
			f.issue(t, connection.Facebook, "state-abc")
			f.connector.RequireCredentialsFunc = func() error {
				return &oauth.MissingCredentialError{EnvName: tt.envName}
			}

			_, err := f.uc.Execute(context.Background(), validCallback("facebook"))
			connErr := requireReason(t, err, tt.reason, http.StatusInternalServerError)
			assert.Contains(t, connErr.Message, tt.envName)
			assert.Equal(t, 0, f.connector.exchangeCalls)
		})
	}
}

func TestHandleConnectionCallbackUseCase_Execute_ExchangeFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "missing access token",
			err:         errors.New("oauth2: server response missing access_token"),
			wantMessage: "access token",
		},
		{
			name: "provider description",
			err: &oauth2.RetrieveError{
				ErrorCode:        "invalid_request",
				ErrorDescription: "Code was already redeemed.",
			},
			wantMessage: "Code was already redeemed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCallbackFixture(t)
			f.issue(t, connection.Facebook, "state-abc")
			f.connector.ExchangeFunc = func(ctx context.Context, code string) (connection.TokenGrant, error) {
				return connection.TokenGrant{}, tt.err
			}

			_, err := f.uc.Execute(context.Background(), validCallback("facebook"))
			connErr := requireReason(t, err, "exchange_failed", http.StatusBadGateway)
			assert.Contains(t, connErr.Message, tt.wantMessage)
			assert.Equal(t, 0, f.repo.upsertCalls)
		})
	}
}

func TestHandleConnectionCallbackUseCase_Execute_ProfileFallback(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		err    error
	}{
		{name: "lookup error", err: errors.New("context deadline exceeded")},
		{name: "empty handle", handle: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCallbackFixture(t)
			f.issue(t, connection.LinkedIn, "state-abc")
			f.connector.FetchHandleFunc = func(ctx context.Context, accessToken string) (string, error) {
				return tt.handle, tt.err
			}

			result, err := f.uc.Execute(context.Background(), validCallback("linkedin"))
			require.NoError(t, err)
			assert.True(t, result.UsedFallbackHandle)
			require.Len(t, f.stored, 1)
			assert.Equal(t, "@linkedin_user", f.stored[0].Handle)
		})
	}
}

func TestHandleConnectionCallbackUseCase_Execute_NotAuthenticated(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.YouTube, "state-abc")

	cmd := validCallback("youtube")
	cmd.UserID = ""

	_, err := f.uc.Execute(context.Background(), cmd)
	requireReason(t, err, "not_authenticated", http.StatusUnauthorized)
	assert.Equal(t, 1, f.connector.exchangeCalls)
	assert.Equal(t, 0, f.repo.upsertCalls)
}

func TestHandleConnectionCallbackUseCase_Execute_PersistFailure(t *testing.T) {
	f := newCallbackFixture(t)
	f.issue(t, connection.YouTube, "state-abc")
	f.repo.UpsertFunc = func(ctx context.Context, c *connection.PlatformConnection) error {
		return errors.New(`duplicate key value violates unique constraint "idx_platform_connections_user_platform"`)
	}

	_, err := f.uc.Execute(context.Background(), validCallback("youtube"))
	connErr := requireReason(t, err, "persist_failed", http.StatusInternalServerError)
	assert.Contains(t, connErr.Message, "Failed to save connection.")
	assert.Contains(t, connErr.Message, "duplicate key value")
}
