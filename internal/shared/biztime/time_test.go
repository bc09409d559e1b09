package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiryFromSeconds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := ExpiryFromSeconds(now, 3600)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(time.Hour), *got)

	assert.Nil(t, ExpiryFromSeconds(now, 0))
	assert.Nil(t, ExpiryFromSeconds(now, -5))
}

func TestNowUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NowUTC().Location())
}
