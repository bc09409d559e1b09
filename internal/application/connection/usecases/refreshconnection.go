package usecases

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

const (
	outcomeRefreshed = "refreshed"
	outcomeRevoked   = "revoked"
)

type RefreshConnectionCommand struct {
	UserID   string
	Platform string
}

// RefreshConnectionUseCase exchanges the stored refresh token for a new access token.
type RefreshConnectionUseCase struct {
	refresher *tokenRefresher
	repo      connection.Repository
	logger    logger.Interface
}

func NewRefreshConnectionUseCase(
	connectors ConnectorProvider,
	repo connection.Repository,
	metrics FlowMetrics,
	now biztime.Clock,
	logger logger.Interface,
) *RefreshConnectionUseCase {
	return &RefreshConnectionUseCase{
		refresher: newTokenRefresher(connectors, repo, metrics, now, logger),
		repo:      repo,
		logger:    logger,
	}
}

func (uc *RefreshConnectionUseCase) Execute(ctx context.Context, cmd RefreshConnectionCommand) (*dto.ConnectionDTO, error) {
	if cmd.UserID == "" {
		return nil, notAuthenticatedError()
	}

	platform, err := parsePlatform(cmd.Platform)
	if err != nil {
		return nil, err
	}

	conn, err := uc.repo.GetByUserAndPlatform(ctx, cmd.UserID, platform)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("connection not found")
		}
		uc.logger.Errorw("failed to load connection", "platform", platform, "user_id", cmd.UserID, "error", err)
		return nil, fmt.Errorf("failed to load connection: %w", err)
	}

	if err := uc.refresher.refresh(ctx, conn); err != nil {
		return nil, err
	}
	return dto.ToConnectionDTO(conn), nil
}

// tokenRefresher is shared by the single and batch refresh paths.
type tokenRefresher struct {
	connectors ConnectorProvider
	repo       connection.Repository
	metrics    FlowMetrics
	now        biztime.Clock
	logger     logger.Interface
}

func newTokenRefresher(
	connectors ConnectorProvider,
	repo connection.Repository,
	metrics FlowMetrics,
	now biztime.Clock,
	logger logger.Interface,
) *tokenRefresher {
	if now == nil {
		now = biztime.NowUTC
	}
	return &tokenRefresher{
		connectors: connectors,
		repo:       repo,
		metrics:    metrics,
		now:        now,
		logger:     logger,
	}
}

// refresh updates conn in place and persists it. A rejected refresh token disconnects the row.
func (r *tokenRefresher) refresh(ctx context.Context, conn *connection.PlatformConnection) error {
	label := conn.Platform.String()

	if conn.Status != connection.StatusConnected {
		r.metrics.TokenRefreshed(label, string(constants.OAuthErrorNotConnected))
		return protocolError(constants.OAuthErrorNotConnected)
	}
	if !conn.HasRefreshToken() {
		r.metrics.TokenRefreshed(label, string(constants.OAuthErrorNoRefreshToken))
		return protocolError(constants.OAuthErrorNoRefreshToken)
	}

	connector, err := r.connectors.Connector(conn.Platform)
	if err != nil {
		r.metrics.TokenRefreshed(label, "error")
		return fmt.Errorf("failed to build connector: %w", err)
	}

	if err := connector.RequireCredentials(); err != nil {
		connErr := credentialError(err)
		r.metrics.TokenRefreshed(label, connErr.Reason)
		r.logger.Errorw("oauth credentials not configured", "platform", conn.Platform, "error", err)
		return connErr
	}

	grant, err := connector.Refresh(ctx, conn.RefreshToken)
	if err != nil {
		if oauth.IsInvalidGrant(err) {
			return r.revoked(ctx, conn, err)
		}
		r.metrics.TokenRefreshed(label, string(constants.OAuthErrorRefreshFailed))
		r.logger.Errorw("token refresh failed",
			"platform", conn.Platform,
			"user_id", conn.UserID,
			"error", err,
		)
		return refreshError(err)
	}

	if err := conn.ApplyRefresh(grant, r.now()); err != nil {
		r.metrics.TokenRefreshed(label, string(constants.OAuthErrorRefreshFailed))
		return refreshError(err)
	}

	if err := r.repo.Update(ctx, conn); err != nil {
		r.metrics.TokenRefreshed(label, string(constants.OAuthErrorPersistFailed))
		r.logger.Errorw("failed to persist refreshed token", "platform", conn.Platform, "user_id", conn.UserID, "error", err)
		return persistError(err)
	}

	r.metrics.TokenRefreshed(label, outcomeRefreshed)
	r.logger.Infow("access token refreshed",
		"platform", conn.Platform,
		"user_id", conn.UserID,
		"access_token", utils.MaskToken(conn.AccessToken),
		"expires_at", conn.TokenExpiresAt,
	)
	return nil
}

func (r *tokenRefresher) revoked(ctx context.Context, conn *connection.PlatformConnection, cause error) error {
	r.logger.Warnw("refresh token rejected, disconnecting",
		"platform", conn.Platform,
		"user_id", conn.UserID,
		"error", cause,
	)
	r.metrics.TokenRefreshed(conn.Platform.String(), outcomeRevoked)

	conn.Disconnect(r.now())
	if err := r.repo.Update(ctx, conn); err != nil {
		r.logger.Errorw("failed to disconnect revoked connection", "platform", conn.Platform, "error", err)
		return persistError(err)
	}
	return refreshError(cause)
}
