package usecases

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

type GetPlatformCredentialQuery struct {
	UserID   string
	Platform connection.Platform
}

// GetPlatformCredentialUseCase serves publishing and stats code. A platform that
// cannot be acted on yields Connected=false rather than an error.
type GetPlatformCredentialUseCase struct {
	repo   connection.Repository
	logger logger.Interface
}

func NewGetPlatformCredentialUseCase(repo connection.Repository, logger logger.Interface) *GetPlatformCredentialUseCase {
	return &GetPlatformCredentialUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetPlatformCredentialUseCase) Execute(ctx context.Context, query GetPlatformCredentialQuery) (*dto.PlatformCredential, error) {
	notConnected := &dto.PlatformCredential{Platform: query.Platform}

	if query.UserID == "" || !query.Platform.IsValid() {
		return notConnected, nil
	}

	row, err := uc.repo.GetByUserAndPlatform(ctx, query.UserID, query.Platform)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return notConnected, nil
		}
		uc.logger.Errorw("failed to load connection",
			"user_id", query.UserID,
			"platform", query.Platform,
			"error", err,
		)
		return nil, fmt.Errorf("failed to load connection: %w", err)
	}

	if !row.IsUsable() {
		uc.logger.Debugw("platform not usable",
			"user_id", query.UserID,
			"platform", query.Platform,
			"status", row.Status,
		)
		return notConnected, nil
	}

	return &dto.PlatformCredential{
		Platform:    query.Platform,
		Connected:   true,
		AccessToken: row.AccessToken,
	}, nil
}
