package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/infrastructure/persistence/models"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
)

func setupConnectionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.PlatformConnectionModel{}))
	return db
}

func newConnection(t *testing.T, userID string, platform connection.Platform, token string, now time.Time) *connection.PlatformConnection {
	t.Helper()
	expires := now.Add(time.Hour)
	c, err := connection.NewConnectedPlatform(userID, platform, connection.TokenGrant{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		ExpiresAt:    &expires,
		Scope:        "basic",
	}, "Acme", now)
	require.NoError(t, err)
	return c
}

func TestPlatformConnectionRepository_Upsert(t *testing.T) {
	db := setupConnectionTestDB(t)
	repo := NewPlatformConnectionRepository(db, logger.NewNopLogger())
	ctx := context.Background()
	first := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	t.Run("insert writes display defaults", func(t *testing.T) {
		c := newConnection(t, "user-1", connection.YouTube, "tok-1", first)
		require.NoError(t, repo.Upsert(ctx, c))
		assert.NotZero(t, c.ID)

		got, err := repo.GetByUserAndPlatform(ctx, "user-1", connection.YouTube)
		require.NoError(t, err)
		assert.Equal(t, connection.StatusConnected, got.Status)
		assert.Equal(t, "tok-1", got.AccessToken)
		assert.Equal(t, "YouTube", got.Display.Name)
		assert.Equal(t, "#FF0000", got.Display.Color)
	})

	t.Run("second upsert updates in place and keeps display metadata", func(t *testing.T) {
		second := first.Add(15 * time.Minute)
		c := newConnection(t, "user-1", connection.YouTube, "tok-2", second)
		c.Handle = "Acme Channel"
		c.Display = connection.Display{Name: "Renamed", Color: "#000000", IconName: "x", Description: "y"}
		require.NoError(t, repo.Upsert(ctx, c))

		var count int64
		require.NoError(t, db.Model(&models.PlatformConnectionModel{}).
			Where("user_id = ? AND platform_id = ?", "user-1", "youtube").
			Count(&count).Error)
		assert.Equal(t, int64(1), count)

		got, err := repo.GetByUserAndPlatform(ctx, "user-1", connection.YouTube)
		require.NoError(t, err)
		assert.Equal(t, "tok-2", got.AccessToken)
		assert.Equal(t, "Acme Channel", got.Handle)
		require.NotNil(t, got.LastSynced)
		assert.True(t, second.Equal(*got.LastSynced))
		assert.Equal(t, "YouTube", got.Display.Name)
		assert.Equal(t, "YouTube", c.Display.Name, "entity reloaded with stored display")
	})

	t.Run("reconnect after disconnect restores connected status", func(t *testing.T) {
		got, err := repo.GetByUserAndPlatform(ctx, "user-1", connection.YouTube)
		require.NoError(t, err)
		got.Disconnect(first.Add(time.Hour))
		require.NoError(t, repo.Update(ctx, got))

		c := newConnection(t, "user-1", connection.YouTube, "tok-3", first.Add(2*time.Hour))
		require.NoError(t, repo.Upsert(ctx, c))

		got, err = repo.GetByUserAndPlatform(ctx, "user-1", connection.YouTube)
		require.NoError(t, err)
		assert.Equal(t, connection.StatusConnected, got.Status)
		assert.Equal(t, "tok-3", got.AccessToken)
	})
}

func TestPlatformConnectionRepository_GetByUserAndPlatform_NotFound(t *testing.T) {
	repo := NewPlatformConnectionRepository(setupConnectionTestDB(t), logger.NewNopLogger())

	_, err := repo.GetByUserAndPlatform(context.Background(), "nobody", connection.Facebook)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestPlatformConnectionRepository_Update(t *testing.T) {
	repo := NewPlatformConnectionRepository(setupConnectionTestDB(t), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	c := newConnection(t, "user-2", connection.LinkedIn, "tok", now)
	require.NoError(t, repo.Upsert(ctx, c))

	c.Disconnect(now.Add(time.Minute))
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByUserAndPlatform(ctx, "user-2", connection.LinkedIn)
	require.NoError(t, err)
	assert.Equal(t, connection.StatusDisconnected, got.Status)
	assert.Empty(t, got.AccessToken)
	assert.Empty(t, got.RefreshToken)
	assert.Nil(t, got.TokenExpiresAt)
	assert.Equal(t, "LinkedIn", got.Display.Name)

	missing := &connection.PlatformConnection{ID: 9999, Platform: connection.LinkedIn}
	err = repo.Update(ctx, missing)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestPlatformConnectionRepository_ListByUser(t *testing.T) {
	repo := NewPlatformConnectionRepository(setupConnectionTestDB(t), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, newConnection(t, "user-3", connection.YouTube, "a", now)))
	require.NoError(t, repo.Upsert(ctx, newConnection(t, "user-3", connection.Facebook, "b", now)))
	require.NoError(t, repo.Upsert(ctx, newConnection(t, "other", connection.Instagram, "c", now)))

	list, err := repo.ListByUser(ctx, "user-3")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, connection.Facebook, list[0].Platform)
	assert.Equal(t, connection.YouTube, list[1].Platform)
}

func TestPlatformConnectionRepository_ListExpiring(t *testing.T) {
	repo := NewPlatformConnectionRepository(setupConnectionTestDB(t), logger.NewNopLogger())
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// expires at now+1h
	soon := newConnection(t, "u1", connection.YouTube, "soon", now)
	require.NoError(t, repo.Upsert(ctx, soon))

	// expires at now+5h
	later := newConnection(t, "u2", connection.YouTube, "later", now.Add(4*time.Hour))
	require.NoError(t, repo.Upsert(ctx, later))

	noRefresh := newConnection(t, "u3", connection.LinkedIn, "norefresh", now)
	noRefresh.RefreshToken = ""
	require.NoError(t, repo.Upsert(ctx, noRefresh))

	disconnected := newConnection(t, "u4", connection.YouTube, "gone", now)
	require.NoError(t, repo.Upsert(ctx, disconnected))
	disconnected.Status = connection.StatusDisconnected
	require.NoError(t, repo.Update(ctx, disconnected))

	list, err := repo.ListExpiring(ctx, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "soon", list[0].AccessToken)
}
