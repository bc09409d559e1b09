package connection

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a connection row.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusPending      Status = "pending"
)

// TokenGrant is the credential set returned by a token endpoint.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Scope        string
}

// PlatformConnection links one user to one platform. There is at most one per (UserID, Platform).
type PlatformConnection struct {
	ID             uint
	UserID         string
	Platform       Platform
	Status         Status
	Handle         string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	Scope          string
	LastSynced     *time.Time
	Display        Display
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewConnectedPlatform builds the row written after a successful authorization.
func NewConnectedPlatform(userID string, platform Platform, grant TokenGrant, handle string, now time.Time) (*PlatformConnection, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if !platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	if grant.AccessToken == "" {
		return nil, ErrAccessTokenMissing
	}
	if handle == "" {
		handle = platform.FallbackHandle()
	}

	synced := now
	return &PlatformConnection{
		UserID:         userID,
		Platform:       platform,
		Status:         StatusConnected,
		Handle:         handle,
		AccessToken:    grant.AccessToken,
		RefreshToken:   grant.RefreshToken,
		TokenExpiresAt: grant.ExpiresAt,
		Scope:          grant.Scope,
		LastSynced:     &synced,
		Display:        platform.DefaultDisplay(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ApplyRefresh stores a refreshed grant. Providers that rotate refresh tokens return
// a new one; otherwise the stored refresh token is kept.
func (c *PlatformConnection) ApplyRefresh(grant TokenGrant, now time.Time) error {
	if grant.AccessToken == "" {
		return ErrAccessTokenMissing
	}
	c.AccessToken = grant.AccessToken
	if grant.RefreshToken != "" {
		c.RefreshToken = grant.RefreshToken
	}
	c.TokenExpiresAt = grant.ExpiresAt
	if grant.Scope != "" {
		c.Scope = grant.Scope
	}
	synced := now
	c.LastSynced = &synced
	c.Status = StatusConnected
	c.UpdatedAt = now
	return nil
}

// Disconnect flips the status and drops every credential. The row and its display metadata stay.
func (c *PlatformConnection) Disconnect(now time.Time) {
	c.Status = StatusDisconnected
	c.AccessToken = ""
	c.RefreshToken = ""
	c.TokenExpiresAt = nil
	c.Scope = ""
	c.UpdatedAt = now
}

// IsUsable reports whether downstream actions may call the platform with this connection.
func (c *PlatformConnection) IsUsable() bool {
	return c != nil && c.Status == StatusConnected && c.AccessToken != ""
}

func (c *PlatformConnection) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

