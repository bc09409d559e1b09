package usecases

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/application/connection/dto"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

type ListConnectionsQuery struct {
	UserID string
}

// ListConnectionsUseCase returns one entry per supported platform, in display order.
type ListConnectionsUseCase struct {
	repo   connection.Repository
	logger logger.Interface
}

func NewListConnectionsUseCase(repo connection.Repository, logger logger.Interface) *ListConnectionsUseCase {
	return &ListConnectionsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListConnectionsUseCase) Execute(ctx context.Context, query ListConnectionsQuery) ([]*dto.ConnectionDTO, error) {
	if query.UserID == "" {
		return nil, notAuthenticatedError()
	}

	rows, err := uc.repo.ListByUser(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list connections", "user_id", query.UserID, "error", err)
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	byPlatform := make(map[connection.Platform]*connection.PlatformConnection, len(rows))
	for _, row := range rows {
		byPlatform[row.Platform] = row
	}

	platforms := connection.Platforms()
	result := make([]*dto.ConnectionDTO, 0, len(platforms))
	for _, p := range platforms {
		if row, ok := byPlatform[p]; ok {
			result = append(result, dto.ToConnectionDTO(row))
			continue
		}
		result = append(result, dto.DisconnectedDTO(p))
	}

	return result, nil
}
