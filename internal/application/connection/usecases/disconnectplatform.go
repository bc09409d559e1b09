package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/oauth"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

type DisconnectPlatformCommand struct {
	UserID   string
	Platform string
}

// DisconnectPlatformUseCase revokes upstream where possible, then clears the stored
// credentials. The row and its display metadata are kept.
type DisconnectPlatformUseCase struct {
	connectors ConnectorProvider
	repo       connection.Repository
	now        biztime.Clock
	logger     logger.Interface
}

func NewDisconnectPlatformUseCase(
	connectors ConnectorProvider,
	repo connection.Repository,
	now biztime.Clock,
	logger logger.Interface,
) *DisconnectPlatformUseCase {
	if now == nil {
		now = biztime.NowUTC
	}
	return &DisconnectPlatformUseCase{
		connectors: connectors,
		repo:       repo,
		now:        now,
		logger:     logger,
	}
}

func (uc *DisconnectPlatformUseCase) Execute(ctx context.Context, cmd DisconnectPlatformCommand) (*dto.ConnectionDTO, error) {
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

	if conn.AccessToken != "" {
		uc.revoke(ctx, platform, conn.AccessToken)
	}

	conn.Disconnect(uc.now())
	if err := uc.repo.Update(ctx, conn); err != nil {
		uc.logger.Errorw("failed to disconnect platform", "platform", platform, "user_id", cmd.UserID, "error", err)
		return nil, persistError(err)
	}

	uc.logger.Infow("platform disconnected", "platform", platform, "user_id", cmd.UserID)
	return dto.ToConnectionDTO(conn), nil
}

// revoke is best effort; the local flip happens regardless.
func (uc *DisconnectPlatformUseCase) revoke(ctx context.Context, platform connection.Platform, accessToken string) {
	connector, err := uc.connectors.Connector(platform)
	if err != nil {
		uc.logger.Warnw("failed to build connector for revocation", "platform", platform, "error", err)
		return
	}

	err = connector.Revoke(ctx, accessToken)
	switch {
	case err == nil:
		uc.logger.Infow("access token revoked upstream", "platform", platform, "access_token", utils.MaskToken(accessToken))
	case errors.Is(err, oauth.ErrRevocationUnsupported):
		uc.logger.Debugw("platform has no revocation endpoint", "platform", platform)
	default:
		uc.logger.Warnw("upstream revocation failed", "platform", platform, "access_token", utils.MaskToken(accessToken), "error", err)
	}
}
