package connection

import (
	"context"
	"time"
)

// Repository persists connection rows keyed on (user id, platform).
type Repository interface {
	// Upsert inserts c, or updates status, handle, tokens, expiry, scope and last_synced
	// of the existing row. Display metadata is written only on insert.
	Upsert(ctx context.Context, c *PlatformConnection) error
	// Update writes the mutable columns of an existing row.
	Update(ctx context.Context, c *PlatformConnection) error
	GetByUserAndPlatform(ctx context.Context, userID string, platform Platform) (*PlatformConnection, error)
	ListByUser(ctx context.Context, userID string) ([]*PlatformConnection, error)
	// ListExpiring returns connected rows with a refresh token whose access token expires before the given time.
	ListExpiring(ctx context.Context, before time.Time, limit int) ([]*PlatformConnection, error)
}
