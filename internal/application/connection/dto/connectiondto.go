package dto

import (
	"time"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

// ConnectionDTO is the read model of one platform for the current user. It never carries tokens.
type ConnectionDTO struct {
	Platform       string     `json:"platform"`
	Status         string     `json:"status"`
	Connected      bool       `json:"connected"`
	Handle         string     `json:"handle,omitempty"`
	Scope          string     `json:"scope,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	LastSynced     *time.Time `json:"last_synced,omitempty"`
	Name           string     `json:"name"`
	Color          string     `json:"color"`
	IconName       string     `json:"icon_name"`
	Description    string     `json:"description"`
}

// ToConnectionDTO converts a stored row.
func ToConnectionDTO(c *connection.PlatformConnection) *ConnectionDTO {
	if c == nil {
		return nil
	}
	return &ConnectionDTO{
		Platform:       c.Platform.String(),
		Status:         string(c.Status),
		Connected:      c.IsUsable(),
		Handle:         c.Handle,
		Scope:          c.Scope,
		TokenExpiresAt: c.TokenExpiresAt,
		LastSynced:     c.LastSynced,
		Name:           c.Display.Name,
		Color:          c.Display.Color,
		IconName:       c.Display.IconName,
		Description:    c.Display.Description,
	}
}

// DisconnectedDTO describes a platform the user has never connected.
func DisconnectedDTO(p connection.Platform) *ConnectionDTO {
	display := p.DefaultDisplay()
	return &ConnectionDTO{
		Platform:    p.String(),
		Status:      string(connection.StatusDisconnected),
		Name:        display.Name,
		Color:       display.Color,
		IconName:    display.IconName,
		Description: display.Description,
	}
}

// PlatformCredential is what publishing and stats code needs to call a platform.
type PlatformCredential struct {
	Platform    connection.Platform
	Connected   bool
	AccessToken string
}
