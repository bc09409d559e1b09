package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

// HandleConnectionCallbackCommand carries everything the provider redirect and the
// request supplied. UserID is empty when the request had no valid session.
type HandleConnectionCallbackCommand struct {
	Platform         string
	Code             string
	State            string
	Error            string
	ErrorDescription string
	// CookieState is the value of the platform's state cookie, empty when absent.
	CookieState string
	UserID      string
}

type HandleConnectionCallbackResult struct {
	Platform   connection.Platform
	Connection *connection.PlatformConnection
	// UsedFallbackHandle is set when the profile lookup failed.
	UsedFallbackHandle bool
}

// HandleConnectionCallbackUseCase completes the authorization code grant and stores the connection.
// Every step runs at most once; any failure ends the request.
type HandleConnectionCallbackUseCase struct {
	connectors ConnectorProvider
	ledger     StateLedger
	repo       connection.Repository
	metrics    FlowMetrics
	now        biztime.Clock
	logger     logger.Interface
}

func NewHandleConnectionCallbackUseCase(
	connectors ConnectorProvider,
	ledger StateLedger,
	repo connection.Repository,
	metrics FlowMetrics,
	now biztime.Clock,
	logger logger.Interface,
) *HandleConnectionCallbackUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &HandleConnectionCallbackUseCase{
		connectors: connectors,
		ledger:     ledger,
		repo:       repo,
		metrics:    metrics,
		now:        now,
		logger:     logger,
	}
}

func (uc *HandleConnectionCallbackUseCase) Execute(ctx context.Context, cmd HandleConnectionCallbackCommand) (*HandleConnectionCallbackResult, error) {
	result, err := uc.handle(ctx, cmd)
	platform := platformLabel(cmd.Platform)
	if err != nil {
		uc.metrics.OAuthCallback(platform, outcomeOf(err))
		return nil, err
	}
	uc.metrics.OAuthCallback(platform, outcomeConnected)
	return result, nil
}

func (uc *HandleConnectionCallbackUseCase) handle(ctx context.Context, cmd HandleConnectionCallbackCommand) (*HandleConnectionCallbackResult, error) {
	platform, err := parsePlatform(cmd.Platform)
	if err != nil {
		uc.logger.Warnw("oauth callback for unknown platform", "platform", cmd.Platform)
		return nil, err
	}

	if err := uc.validateProviderResponse(platform, cmd); err != nil {
		return nil, err
	}

	if err := uc.validateState(ctx, platform, cmd); err != nil {
		return nil, err
	}

	connector, err := uc.connectors.Connector(platform)
	if err != nil {
		uc.logger.Errorw("failed to build connector", "platform", platform, "error", err)
		return nil, fmt.Errorf("failed to build connector: %w", err)
	}

	if err := connector.RequireCredentials(); err != nil {
		uc.logger.Errorw("oauth credentials not configured", "platform", platform, "error", err)
		return nil, credentialError(err)
	}

	grant, err := connector.Exchange(ctx, cmd.Code)
	if err != nil {
		uc.logger.Errorw("token exchange failed", "platform", platform, "error", err)
		return nil, exchangeError(err)
	}

	handle, err := connector.FetchHandle(ctx, grant.AccessToken)
	usedFallback := false
	if err != nil || handle == "" {
		uc.logger.Warnw("profile lookup failed, using fallback handle",
			"platform", platform,
			"error", err,
		)
		handle = platform.FallbackHandle()
		usedFallback = true
	}

	if cmd.UserID == "" {
		uc.logger.Warnw("oauth callback without an authenticated user", "platform", platform)
		return nil, notAuthenticatedError()
	}

	conn, err := connection.NewConnectedPlatform(cmd.UserID, platform, grant, handle, uc.now())
	if err != nil {
		uc.logger.Errorw("failed to build connection", "platform", platform, "error", err)
		return nil, exchangeError(err)
	}

	if err := uc.repo.Upsert(ctx, conn); err != nil {
		uc.logger.Errorw("failed to persist connection",
			"platform", platform,
			"user_id", cmd.UserID,
			"error", err,
		)
		return nil, persistError(err)
	}

	uc.logger.Infow("platform connected",
		"platform", platform,
		"user_id", cmd.UserID,
		"connection_id", conn.ID,
		"fallback_handle", usedFallback,
		"has_refresh_token", conn.HasRefreshToken(),
	)

	return &HandleConnectionCallbackResult{
		Platform:           platform,
		Connection:         conn,
		UsedFallbackHandle: usedFallback,
	}, nil
}

func (uc *HandleConnectionCallbackUseCase) validateProviderResponse(platform connection.Platform, cmd HandleConnectionCallbackCommand) error {
	if cmd.Error != "" {
		uc.logger.Infow("provider returned an error",
			"platform", platform,
			"error_code", cmd.Error,
		)
		return providerCallbackError(cmd.Error, cmd.ErrorDescription)
	}
	if cmd.Code == "" {
		uc.logger.Warnw("oauth callback without code", "platform", platform)
		return protocolError(constants.OAuthErrorMissingCode)
	}
	if cmd.State == "" {
		uc.logger.Warnw("oauth callback without state", "platform", platform)
		return protocolError(constants.OAuthErrorMissingState)
	}
	return nil
}

// validateState checks the cookie first, then consumes the server side entry.
func (uc *HandleConnectionCallbackUseCase) validateState(ctx context.Context, platform connection.Platform, cmd HandleConnectionCallbackCommand) error {
	if cmd.CookieState == "" {
		uc.logger.Warnw("oauth state cookie missing", "platform", platform)
		return protocolError(constants.OAuthErrorExpiredState)
	}
	if subtle.ConstantTimeCompare([]byte(cmd.CookieState), []byte(cmd.State)) != 1 {
		uc.logger.Warnw("oauth state mismatch", "platform", platform)
		return protocolError(constants.OAuthErrorInvalidState)
	}

	live, err := uc.ledger.Consume(ctx, platform, cmd.State)
	if err != nil {
		uc.logger.Errorw("failed to consume oauth state", "platform", platform, "error", err)
		return protocolError(constants.OAuthErrorExpiredState)
	}
	if !live {
		uc.logger.Warnw("oauth state expired or replayed", "platform", platform)
		return protocolError(constants.OAuthErrorExpiredState)
	}
	return nil
}
