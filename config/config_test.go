package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/save"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vi-novel.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, constants.SceneTitle, cfg.InitialScene)
	assert.Equal(t, save.BackendFile, cfg.Save.Backend)

	timing := cfg.Timing.Engine()
	assert.Equal(t, constants.SpeedNormal, timing.SpeedNormal)
	assert.Equal(t, constants.SettleTitle, timing.SettleTitle)
	assert.Equal(t, constants.ToastDuration, timing.Toast)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
story = "custom.json"
keymap = "my-keys.toml"

[timing]
speed_normal = "20ms"
settle_default = "0s"

[save]
backend = "sqlite"
path = "endings.db"

[log]
enabled = true
encoding = "json"
`)
	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "custom.json", cfg.Story)
	assert.Equal(t, "my-keys.toml", cfg.Keymap)
	assert.Equal(t, 20*time.Millisecond, cfg.Timing.SpeedNormal.Duration)
	assert.Equal(t, time.Duration(0), cfg.Timing.SettleDefault.Duration)
	assert.Equal(t, constants.SpeedSystem, cfg.Timing.SpeedSystem.Duration, "unset keys keep defaults")
	assert.Equal(t, save.BackendSQLite, cfg.Save.Backend)
	assert.True(t, cfg.Log.Enabled)
	assert.Equal(t, "json", cfg.Log.Encoding)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadFile(filepath.Join(t.TempDir(), "absent.toml")))
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.LoadFile(""))
}

func TestLoadFile_Malformed(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile(writeFile(t, "story = ")))
	assert.Error(t, cfg.LoadFile(writeFile(t, "[timing]\nspeed_normal = \"fast\"\n")))
}

func TestLoadEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadEnv(map[string]string{
		"VINOVEL_STORY":                "env.json",
		"VINOVEL_TIMING_SPEED_CHAPTER": "300ms",
		"VINOVEL_SAVE_BACKEND":         "memory",
		"VINOVEL_AUDIO_ENABLED":        "false",
		"VINOVEL_LOG_LEVEL":            "warn",
		"VINOVEL_KEYMAP":               "env-keys.toml",
		"STORY":                        "ignored.json",
	}))

	assert.Equal(t, "env.json", cfg.Story)
	assert.Equal(t, 300*time.Millisecond, cfg.Timing.SpeedChapter.Duration)
	assert.Equal(t, save.BackendMemory, cfg.Save.Backend)
	assert.False(t, cfg.Audio.Enabled)
	assert.True(t, cfg.Audio.TypingBlip)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "env-keys.toml", cfg.Keymap)
}

func TestLoadEnv_BadDuration(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadEnv(map[string]string{"VINOVEL_TIMING_TOAST": "soon"}))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
story = "file.json"
initial_scene = "Event_01"
`)
	environ := map[string]string{"VINOVEL_STORY": "env.json"}

	cfg, err := Load([]string{"-config", path}, environ, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.Story, "env beats file")
	assert.Equal(t, "Event_01", cfg.InitialScene)

	cfg, err = Load([]string{"-config", path, "-story", "flag.json", "-scene", "Event_02", "-keys", "flag-keys.toml", "-debug", "-mute"}, environ, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.Story, "flag beats env")
	assert.Equal(t, "Event_02", cfg.InitialScene)
	assert.Equal(t, "flag-keys.toml", cfg.Keymap)
	assert.True(t, cfg.Log.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"-nope"}, map[string]string{}, io.Discard)
	assert.Error(t, err)
}

func TestLoad_InvalidResult(t *testing.T) {
	_, err := Load([]string{"-config", ""}, map[string]string{"VINOVEL_SAVE_BACKEND": "cloud"}, io.Discard)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, save.ErrUnknownBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty story", func(c *Config) { c.Story = "" }},
		{"empty scene", func(c *Config) { c.InitialScene = "" }},
		{"zero normal speed", func(c *Config) { c.Timing.SpeedNormal = Duration{} }},
		{"system faster than normal", func(c *Config) { c.Timing.SpeedSystem = Duration{time.Millisecond} }},
		{"chapter faster than system", func(c *Config) { c.Timing.SpeedChapter = Duration{c.Timing.SpeedSystem.Duration - 1} }},
		{"system equal to normal", func(c *Config) { c.Timing.SpeedSystem = c.Timing.SpeedNormal }},
		{"chapter equal to system", func(c *Config) { c.Timing.SpeedChapter = c.Timing.SpeedSystem }},
		{"negative settle", func(c *Config) { c.Timing.SettleEllipsis = Duration{-time.Millisecond} }},
		{"zero toast", func(c *Config) { c.Timing.Toast = Duration{} }},
		{"unknown backend", func(c *Config) { c.Save.Backend = "cloud" }},
		{"file without path", func(c *Config) { c.Save.Path = "" }},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	cfg.Save = SaveConfig{Backend: save.BackendMemory}
	assert.NoError(t, cfg.Validate(), "memory backend needs no path")
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(out))
	assert.Error(t, d.UnmarshalText([]byte("later")))
}
