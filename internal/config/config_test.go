package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 2*time.Second, cfg.Session.ConnectMin)
	assert.Equal(t, 5*time.Second, cfg.Session.ConnectMax)
	assert.Equal(t, 0.7, cfg.Chat.ReplyProbability)
	assert.Equal(t, time.Second, cfg.Chat.ReplyMin)
	assert.Equal(t, 3*time.Second, cfg.Chat.ReplyMax)
	assert.True(t, cfg.Media.Enabled)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.Media.ICEServers)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := `
mode: debug
port: 9090
session:
  connect_min: 100ms
  connect_max: 200ms
chat:
  reply_probability: 1
media:
  enabled: false
  video_codec: h264
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 100*time.Millisecond, cfg.Session.ConnectMin)
	assert.Equal(t, 200*time.Millisecond, cfg.Session.ConnectMax)
	assert.Equal(t, 1.0, cfg.Chat.ReplyProbability)
	assert.False(t, cfg.Media.Enabled)
	assert.Equal(t, "h264", cfg.Media.VideoCodec)
	assert.Equal(t, "Hi there! 👋", cfg.Session.Greeting)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("RANDOMCHAT_PORT", "7000")
	t.Setenv("RANDOMCHAT_SESSION_GREETING", "yo")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "yo", cfg.Session.Greeting)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	yaml := `
session:
  connect_min: 5s
  connect_max: 1s
chat:
  reply_probability: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session connect window")
	assert.Contains(t, err.Error(), "reply_probability")
}
