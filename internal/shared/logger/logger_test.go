package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/shared/config"
)

func TestConditionalSourceHandler_OnlyListedLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		wantSource bool
	}{
		{name: "info omitted", level: slog.LevelInfo, wantSource: false},
		{name: "warn included", level: slog.LevelWarn, wantSource: true},
		{name: "error included", level: slog.LevelError, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewConditionalSourceHandler(base, slog.LevelWarn, slog.LevelError))

			log.Log(context.Background(), tt.level, "connection event", "platform", "youtube")

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="))
			assert.Contains(t, buf.String(), "platform=youtube")
		})
	}
}

func TestConditionalSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewConditionalSourceHandler(base, slog.LevelError)).
		With("user_id", "u-1").
		WithGroup("oauth")

	log.Info("callback", "platform", "linkedin")

	out := buf.String()
	assert.Contains(t, out, "user_id=u-1")
	assert.Contains(t, out, "oauth.platform=linkedin")
	assert.NotContains(t, out, "source=")
}

func TestInit_JSONFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	err := Init(&config.LoggerConfig{Level: "debug", Format: "json", OutputPath: path}, false)
	require.NoError(t, err)
	t.Cleanup(func() { Logger = nil })

	NewLogger().Named("oauth").Infow("state issued", "platform", "facebook")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "state issued", entry["msg"])
	assert.Equal(t, "oauth", entry["logger"])
	assert.Equal(t, "facebook", entry["platform"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
