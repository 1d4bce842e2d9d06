package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/stalkbot/pkg/motion"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, motion.DefaultDwell, cfg.Dwell())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalkbot.toml")

	cfg := Default()
	cfg.Arm.BridgeURL = "http://arm.local:8420"
	cfg.Perception.NumFrames = 5
	cfg.Offsets.TrimX = 31.5
	cfg.Demo.DwellSeconds = 0.5
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalkbot.toml")
	data := "[offsets]\nfunnel_y = 15.0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, 15.0, cfg.Offsets.FunnelY)
	require.Equal(t, motion.DefaultOffsets().TrimY, cfg.Offsets.TrimY)
	require.Equal(t, Default().Arm, cfg.Arm)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("STALKBOT_ARM_BRIDGE_URL", "http://10.0.0.7:9000")
	t.Setenv("STALKBOT_OFFSETS_INSERT_DEPTH", "18")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.7:9000", cfg.Arm.BridgeURL)
	require.Equal(t, 18.0, cfg.Offsets.InsertDepth)
}

func TestLoadFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalkbot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[perception]\ntimeout_seconds = 0.0\n"), 0644))

	_, err := LoadFrom(path)
	require.ErrorContains(t, err, "timeout_seconds")
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stalkbot.toml")
	require.NoError(t, os.WriteFile(path, []byte("[arm\nbridge_url ="), 0644))

	_, err := LoadFrom(path)
	require.ErrorContains(t, err, "config parse failed")
}

func TestPathHonorsEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/stalkbot/rig.toml")
	require.Equal(t, "/etc/stalkbot/rig.toml", Path())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing bridge", func(c *Config) { c.Arm.BridgeURL = " " }, "bridge_url"},
		{"motion timeout", func(c *Config) { c.Arm.MotionTimeoutSeconds = 0 }, "motion_timeout_seconds"},
		{"perception url", func(c *Config) { c.Perception.URL = "" }, "perception config missing url"},
		{"frames", func(c *Config) { c.Perception.NumFrames = 0 }, "num_frames"},
		{"dwell", func(c *Config) { c.Demo.DwellSeconds = -1 }, "dwell_seconds"},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		require.ErrorContains(t, cfg.Validate(), tt.want, tt.name)
	}
}
