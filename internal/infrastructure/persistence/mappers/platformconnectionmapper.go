package mappers

import (
	"fmt"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/persistence/models"
	"github.com/pulseboard/pulseboard/internal/shared/mapper"
)

// PlatformConnectionMapper converts between connection entities and persistence models.
type PlatformConnectionMapper interface {
	ToModel(c *connection.PlatformConnection) *models.PlatformConnectionModel
	ToDomain(model *models.PlatformConnectionModel) (*connection.PlatformConnection, error)
	ToDomainList(list []*models.PlatformConnectionModel) ([]*connection.PlatformConnection, error)
}

type platformConnectionMapper struct{}

func NewPlatformConnectionMapper() PlatformConnectionMapper {
	return &platformConnectionMapper{}
}

func (m *platformConnectionMapper) ToModel(c *connection.PlatformConnection) *models.PlatformConnectionModel {
	if c == nil {
		return nil
	}

	return &models.PlatformConnectionModel{
		ID:             c.ID,
		UserID:         c.UserID,
		PlatformID:     c.Platform.String(),
		Status:         string(c.Status),
		Handle:         c.Handle,
		AccessToken:    c.AccessToken,
		RefreshToken:   c.RefreshToken,
		TokenExpiresAt: c.TokenExpiresAt,
		Scope:          c.Scope,
		LastSynced:     c.LastSynced,
		Name:           c.Display.Name,
		Color:          c.Display.Color,
		Description:    c.Display.Description,
		IconName:       c.Display.IconName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *platformConnectionMapper) ToDomain(model *models.PlatformConnectionModel) (*connection.PlatformConnection, error) {
	if model == nil {
		return nil, nil
	}

	platform, err := connection.ParsePlatform(model.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("invalid platform_id on row %d: %w", model.ID, err)
	}

	return &connection.PlatformConnection{
		ID:             model.ID,
		UserID:         model.UserID,
		Platform:       platform,
		Status:         connection.Status(model.Status),
		Handle:         model.Handle,
		AccessToken:    model.AccessToken,
		RefreshToken:   model.RefreshToken,
		TokenExpiresAt: model.TokenExpiresAt,
		Scope:          model.Scope,
		LastSynced:     model.LastSynced,
		Display: connection.Display{
			Name:        model.Name,
			Color:       model.Color,
			IconName:    model.IconName,
			Description: model.Description,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func (m *platformConnectionMapper) ToDomainList(list []*models.PlatformConnectionModel) ([]*connection.PlatformConnection, error) {
	return mapper.MapSlicePtrWithID(list, m.ToDomain, func(model *models.PlatformConnectionModel) uint {
		return model.ID
	})
}
