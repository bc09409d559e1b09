package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/biztime"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

const (
	DefaultRefreshWindow    = 30 * time.Minute
	DefaultRefreshBatchSize = 50
)

// RefreshExpiringConnectionsUseCase refreshes connected rows whose access token
// expires within the window. Failures on one row do not stop the batch.
type RefreshExpiringConnectionsUseCase struct {
	refresher *tokenRefresher
	repo      connection.Repository
	window    time.Duration
	batchSize int
	now       biztime.Clock
	logger    logger.Interface
}

func NewRefreshExpiringConnectionsUseCase(
	connectors ConnectorProvider,
	repo connection.Repository,
	metrics FlowMetrics,
	window time.Duration,
	batchSize int,
	now biztime.Clock,
	logger logger.Interface,
) *RefreshExpiringConnectionsUseCase {
	if window <= 0 {
		window = DefaultRefreshWindow
	}
	if batchSize <= 0 {
		batchSize = DefaultRefreshBatchSize
	}
	if now == nil {
		now = biztime.NowUTC
	}
	return &RefreshExpiringConnectionsUseCase{
		refresher: newTokenRefresher(connectors, repo, metrics, now, logger),
		repo:      repo,
		window:    window,
		batchSize: batchSize,
		now:       now,
		logger:    logger,
	}
}

// Execute returns the number of connections refreshed.
func (uc *RefreshExpiringConnectionsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(uc.window)

	rows, err := uc.repo.ListExpiring(ctx, cutoff, uc.batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list expiring connections", "error", err)
		return 0, fmt.Errorf("failed to list expiring connections: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	refreshed := 0
	for _, conn := range rows {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if err := uc.refresher.refresh(ctx, conn); err != nil {
			uc.logger.Warnw("skipping connection after refresh failure",
				"connection_id", conn.ID,
				"platform", conn.Platform,
				"error", err,
			)
			continue
		}
		refreshed++
	}

	uc.logger.Infow("expiring connections processed",
		"candidates", len(rows),
		"refreshed", refreshed,
	)
	return refreshed, nil
}
