package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/interfaces/http/handlers/testutil"
	"github.com/pulseboard/pulseboard/internal/shared/config"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

type mockInitiateUC struct {
	fn    func(ctx context.Context, cmd usecases.InitiateConnectionCommand) (*usecases.InitiateConnectionResult, error)
	calls int
}

func (m *mockInitiateUC) Execute(ctx context.Context, cmd usecases.InitiateConnectionCommand) (*usecases.InitiateConnectionResult, error) {
	m.calls++
	return m.fn(ctx, cmd)
}

type mockCallbackUC struct {
	fn      func(ctx context.Context, cmd usecases.HandleConnectionCallbackCommand) (*usecases.HandleConnectionCallbackResult, error)
	lastCmd usecases.HandleConnectionCallbackCommand
}

func (m *mockCallbackUC) Execute(ctx context.Context, cmd usecases.HandleConnectionCallbackCommand) (*usecases.HandleConnectionCallbackResult, error) {
	m.lastCmd = cmd
	return m.fn(ctx, cmd)
}

func testServerConfig(mode string) config.ServerConfig {
	return config.ServerConfig{
		Mode:            mode,
		AppURL:          "https://app.example.com/",
		ConnectionsPath: "/dashboard/connections",
	}
}

func newOAuthHandler(initiate *mockInitiateUC, callback *mockCallbackUC, mode string) *OAuthConnectHandler {
	return NewOAuthConnectHandler(initiate, callback, testServerConfig(mode),
		config.CookieConfig{SameSite: "Lax"}, 10*time.Minute, logger.NewNopLogger())
}

func TestOAuthConnectHandler_Start(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		wantSecure bool
	}{
		{name: "development", mode: "debug", wantSecure: false},
		{name: "production", mode: "release", wantSecure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initiate := &mockInitiateUC{fn: func(ctx context.Context, cmd usecases.InitiateConnectionCommand) (*usecases.InitiateConnectionResult, error) {
				assert.Equal(t, "instagram", cmd.Platform)
				return &usecases.InitiateConnectionResult{
					Platform: connection.Instagram,
					AuthURL:  "https://www.instagram.com/oauth/authorize?state=s1",
					State:    "s1",
				}, nil
			}}
			h := newOAuthHandler(initiate, &mockCallbackUC{}, tt.mode)

			c, w := testutil.NewTestContext(http.MethodGet, "/api/oauth/instagram/start")
			testutil.SetURLParam(c, "platform", "instagram")
			h.Start(c)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "https://www.instagram.com/oauth/authorize?state=s1", w.Header().Get("Location"))

			cookie := testutil.ResponseCookie(w, "oauth_state_instagram")
			require.NotNil(t, cookie)
			assert.Equal(t, "s1", cookie.Value)
			assert.Equal(t, "/api/oauth/instagram", cookie.Path)
			assert.Equal(t, 600, cookie.MaxAge)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tt.wantSecure, cookie.Secure)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		})
	}
}

func TestOAuthConnectHandler_Start_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "unknown platform",
			err:        apperrors.NewProtocolError("unknown_platform", "Unsupported platform."),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing client id",
			err:        apperrors.NewConfigurationError("missing_client_id", "Server configuration error: TIKTOK_CLIENT_ID is not set."),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unexpected failure",
			err:        errors.New("failed to record state: dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initiate := &mockInitiateUC{fn: func(ctx context.Context, cmd usecases.InitiateConnectionCommand) (*usecases.InitiateConnectionResult, error) {
				return nil, tt.err
			}}
			h := newOAuthHandler(initiate, &mockCallbackUC{}, "debug")

			c, w := testutil.NewTestContext(http.MethodGet, "/api/oauth/tiktok/start")
			testutil.SetURLParam(c, "platform", "tiktok")
			h.Start(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Values("Set-Cookie"))

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.NotContains(t, resp.Error.Message, "connection refused")
		})
	}
}

func TestOAuthConnectHandler_Callback_Success(t *testing.T) {
	callback := &mockCallbackUC{fn: func(ctx context.Context, cmd usecases.HandleConnectionCallbackCommand) (*usecases.HandleConnectionCallbackResult, error) {
		return &usecases.HandleConnectionCallbackResult{Platform: connection.LinkedIn}, nil
	}}
	h := newOAuthHandler(&mockInitiateUC{}, callback, "debug")

	c, w := testutil.NewTestContext(http.MethodGet, "/api/oauth/linkedin/callback")
	testutil.SetURLParam(c, "platform", "linkedin")
	testutil.SetQueryParams(c, map[string]string{"code": "abc", "state": "s1"})
	testutil.AddCookie(c, "oauth_state_linkedin", "s1")
	testutil.SetAuthContext(c, "user-1")
	h.Callback(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/dashboard/connections?connected=linkedin", w.Header().Get("Location"))

	assert.Equal(t, usecases.HandleConnectionCallbackCommand{
		Platform:    "linkedin",
		Code:        "abc",
		State:       "s1",
		CookieState: "s1",
		UserID:      "user-1",
	}, callback.lastCmd)

	cleared := testutil.ResponseCookie(w, "oauth_state_linkedin")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Equal(t, "/api/oauth/linkedin", cleared.Path)
}

func TestOAuthConnectHandler_Callback_Failure(t *testing.T) {
	tests := []struct {
		name        string
		platform    string
		err         error
		wantMessage string
		wantCleared bool
	}{
		{
			name:        "state mismatch",
			platform:    "facebook",
			err:         apperrors.NewProtocolError("invalid_state", constants.GetOAuthErrorMessage(constants.OAuthErrorInvalidState)),
			wantMessage: constants.GetOAuthErrorMessage(constants.OAuthErrorInvalidState),
			wantCleared: true,
		},
		{
			name:        "unknown platform",
			platform:    "myspace",
			err:         apperrors.NewProtocolError("unknown_platform", "Unsupported platform."),
			wantMessage: "Unsupported platform.",
			wantCleared: false,
		},
		{
			name:        "raw error is not leaked",
			platform:    "youtube",
			err:         errors.New("failed to build connector: secret=hunter2"),
			wantMessage: constants.GetOAuthErrorMessage(""),
			wantCleared: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callback := &mockCallbackUC{fn: func(ctx context.Context, cmd usecases.HandleConnectionCallbackCommand) (*usecases.HandleConnectionCallbackResult, error) {
				return nil, tt.err
			}}
			h := newOAuthHandler(&mockInitiateUC{}, callback, "release")

			c, w := testutil.NewTestContext(http.MethodGet, "/api/oauth/"+tt.platform+"/callback")
			testutil.SetURLParam(c, "platform", tt.platform)
			testutil.SetQueryParams(c, map[string]string{"code": "abc", "state": "forged"})
			testutil.AddCookie(c, "oauth_state_"+tt.platform, "s1")
			h.Callback(c)

			assert.Equal(t, http.StatusFound, w.Code)
			u, err := testutil.RedirectQuery(w)
			require.NoError(t, err)
			assert.Equal(t, "app.example.com", u.Host)
			assert.Equal(t, "/dashboard/connections", u.Path)
			assert.Equal(t, tt.wantMessage, u.Query().Get("error"))
			assert.Empty(t, u.Query().Get("connected"))

			cleared := testutil.ResponseCookie(w, "oauth_state_"+tt.platform)
			if tt.wantCleared {
				require.NotNil(t, cleared)
				assert.True(t, cleared.Secure)
			} else {
				assert.Nil(t, cleared)
				assert.Empty(t, callback.lastCmd.CookieState)
			}
		})
	}
}
