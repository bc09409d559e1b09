package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/domain/connection"
)

func TestToConnectionDTO_OmitsTokens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := connection.NewConnectedPlatform("user-1", connection.YouTube, connection.TokenGrant{
		AccessToken:  "secret-access",
		RefreshToken: "secret-refresh",
		Scope:        "youtube.readonly",
	}, "Acme Channel", now)
	require.NoError(t, err)

	d := ToConnectionDTO(c)
	assert.True(t, d.Connected)
	assert.Equal(t, "youtube", d.Platform)
	assert.Equal(t, "Acme Channel", d.Handle)
	assert.Equal(t, "YouTube", d.Name)

	body, err := json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret-access")
	assert.NotContains(t, string(body), "secret-refresh")
}

func TestToConnectionDTO_DisconnectedRow(t *testing.T) {
	now := time.Now().UTC()
	c, err := connection.NewConnectedPlatform("user-1", connection.LinkedIn, connection.TokenGrant{AccessToken: "a"}, "", now)
	require.NoError(t, err)
	c.Disconnect(now)

	d := ToConnectionDTO(c)
	assert.False(t, d.Connected)
	assert.Equal(t, "disconnected", d.Status)
	assert.Equal(t, "@linkedin_user", d.Handle)
}

func TestDisconnectedDTO(t *testing.T) {
	d := DisconnectedDTO(connection.Instagram)
	assert.Equal(t, "disconnected", d.Status)
	assert.False(t, d.Connected)
	assert.Equal(t, "#E4405F", d.Color)
	assert.Nil(t, ToConnectionDTO(nil))
}
