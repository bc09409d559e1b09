package models

import "time"

// PlatformConnectionModel represents the database persistence model for platform connections.
type PlatformConnectionModel struct {
	ID             uint       `gorm:"primarykey"`
	UserID         string     `gorm:"not null;size:64;uniqueIndex:idx_platform_connections_user_platform,priority:1"`
	PlatformID     string     `gorm:"not null;size:32;uniqueIndex:idx_platform_connections_user_platform,priority:2"`
	Status         string     `gorm:"not null;size:20;default:disconnected;index:idx_platform_connections_status_expiry,priority:1"`
	Handle         string     `gorm:"size:255"`
	AccessToken    string     `gorm:"type:text"`
	RefreshToken   string     `gorm:"type:text"`
	TokenExpiresAt *time.Time `gorm:"index:idx_platform_connections_status_expiry,priority:2"`
	Scope          string     `gorm:"type:text"`
	LastSynced     *time.Time
	Name           string `gorm:"not null;size:100"`
	Color          string `gorm:"not null;size:20"`
	Description    string `gorm:"not null;size:255"`
	IconName       string `gorm:"not null;size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PlatformConnectionModel) TableName() string {
	return "platform_connections"
}
