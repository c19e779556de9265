package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8090, config.HTTP.Port)
	assert.Equal(t, "localhost:50051", config.Inference.Address)
	assert.Equal(t, "/haircast/v1/stream", config.Bridge.Path)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9000
inference:
  address: "inference:50051"
  retry_backoff: 100
session:
  max_idle: 60
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, config.HTTP.Port)
	assert.Equal(t, "inference:50051", config.Inference.Address)
	assert.Equal(t, 60, config.Session.MaxIdle)

	inf := config.Inference.toInference()
	assert.Equal(t, 100*time.Millisecond, inf.RetryBackoff)
	assert.Equal(t, 5*time.Second, inf.OpenTimeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HAIRCAST_HTTP_PORT", "7777")
	t.Setenv("HAIRCAST_INFERENCE_ADDR", "10.0.0.5:50051")
	t.Setenv("HAIRCAST_AUTH_SECRET", "topsecret")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7777, config.HTTP.Port)
	assert.Equal(t, "10.0.0.5:50051", config.Inference.Address)
	assert.True(t, config.Bridge.Auth.Enabled)
	assert.Equal(t, "topsecret", config.Bridge.Auth.Secret)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad port", "http:\n  port: -1\n"},
		{"empty inference address", "inference:\n  address: \"\"\n"},
		{"auth without secret", "bridge:\n  auth:\n    enabled: true\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "http: ["))
	assert.Error(t, err)
}

func TestBridgeConfig_Conversion(t *testing.T) {
	config := DefaultConfig()
	b := config.Bridge.toBridge()
	assert.Equal(t, 5*time.Second, b.OpenTimeout)
	assert.Equal(t, int64(4<<20), b.ReadLimit)
	assert.False(t, b.Auth.Enabled)
}
