package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/persistence/mappers"
	"github.com/pulseboard/pulseboard/internal/infrastructure/persistence/models"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

// upsertColumns are refreshed on every reconnect. Display metadata is deliberately absent.
var upsertColumns = []string{
	"status",
	"handle",
	"access_token",
	"refresh_token",
	"token_expires_at",
	"scope",
	"last_synced",
	"updated_at",
}

// PlatformConnectionRepository implements connection.Repository using GORM.
type PlatformConnectionRepository struct {
	db     *gorm.DB
	mapper mappers.PlatformConnectionMapper
	logger logger.Interface
}

// NewPlatformConnectionRepository creates a new PlatformConnectionRepository.
func NewPlatformConnectionRepository(db *gorm.DB, log logger.Interface) *PlatformConnectionRepository {
	return &PlatformConnectionRepository{
		db:     db,
		mapper: mappers.NewPlatformConnectionMapper(),
		logger: log,
	}
}

func (r *PlatformConnectionRepository) Upsert(ctx context.Context, c *connection.PlatformConnection) error {
	model := r.mapper.ToModel(c)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "platform_id"},
		},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert platform connection",
			"user_id", c.UserID,
			"platform", c.Platform,
			"error", err,
		)
		return fmt.Errorf("failed to upsert platform connection: %w", err)
	}

	// Reload so ID, CreatedAt and the persisted display metadata reflect the stored row.
	var stored models.PlatformConnectionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", c.UserID, c.Platform.String()).
		First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload platform connection: %w", err)
	}

	c.ID = stored.ID
	c.CreatedAt = stored.CreatedAt
	c.Display = connection.Display{
		Name:        stored.Name,
		Color:       stored.Color,
		IconName:    stored.IconName,
		Description: stored.Description,
	}
	return nil
}

func (r *PlatformConnectionRepository) Update(ctx context.Context, c *connection.PlatformConnection) error {
	result := r.db.WithContext(ctx).
		Model(&models.PlatformConnectionModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"status":           string(c.Status),
			"handle":           c.Handle,
			"access_token":     c.AccessToken,
			"refresh_token":    c.RefreshToken,
			"token_expires_at": c.TokenExpiresAt,
			"scope":            c.Scope,
			"last_synced":      c.LastSynced,
			"updated_at":       c.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update platform connection", "id", c.ID, "error", result.Error)
		return fmt.Errorf("failed to update platform connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("platform connection not found")
	}
	return nil
}

func (r *PlatformConnectionRepository) GetByUserAndPlatform(ctx context.Context, userID string, platform connection.Platform) (*connection.PlatformConnection, error) {
	var model models.PlatformConnectionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform_id = ?", userID, platform.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("platform connection not found", platform.String())
		}
		return nil, fmt.Errorf("failed to get platform connection: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *PlatformConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*connection.PlatformConnection, error) {
	var list []*models.PlatformConnectionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("platform_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list platform connections: %w", err)
	}
	return r.mapper.ToDomainList(list)
}

func (r *PlatformConnectionRepository) ListExpiring(ctx context.Context, before time.Time, limit int) ([]*connection.PlatformConnection, error) {
	var list []*models.PlatformConnectionModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(connection.StatusConnected)).
		Where("refresh_token <> ''").
		Where("token_expires_at IS NOT NULL AND token_expires_at <= ?", before).
		Order("token_expires_at ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring platform connections: %w", err)
	}
	return r.mapper.ToDomainList(list)
}
