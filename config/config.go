// Package config loads player settings from defaults, a TOML file,
// VINOVEL_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/vi-novel/constants"
	"github.com/lixenwraith/vi-novel/engine"
	"github.com/lixenwraith/vi-novel/save"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "VINOVEL_"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as a string, e.g. "40ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full player configuration
type Config struct {
	Story        string `toml:"story" env:"STORY"`
	InitialScene string `toml:"initial_scene" env:"INITIAL_SCENE"`

	// Optional key rebinding file; empty or missing keeps the default keys
	Keymap string `toml:"keymap" env:"KEYMAP"`

	Timing TimingConfig `toml:"timing" envPrefix:"TIMING_"`
	Save   SaveConfig   `toml:"save" envPrefix:"SAVE_"`
	Audio  AudioConfig  `toml:"audio" envPrefix:"AUDIO_"`
	Log    LogConfig    `toml:"log" envPrefix:"LOG_"`
}

// TimingConfig holds typewriter speeds and settle delays
type TimingConfig struct {
	SpeedNormal  Duration `toml:"speed_normal" env:"SPEED_NORMAL"`
	SpeedSystem  Duration `toml:"speed_system" env:"SPEED_SYSTEM"`
	SpeedChapter Duration `toml:"speed_chapter" env:"SPEED_CHAPTER"`

	SettleTitle    Duration `toml:"settle_title" env:"SETTLE_TITLE"`
	SettleHiddenUI Duration `toml:"settle_hidden_ui" env:"SETTLE_HIDDEN_UI"`
	SettleEllipsis Duration `toml:"settle_ellipsis" env:"SETTLE_ELLIPSIS"`
	SettleDefault  Duration `toml:"settle_default" env:"SETTLE_DEFAULT"`

	Toast Duration `toml:"toast" env:"TOAST"`
}

// SaveConfig selects the ending registry backend
type SaveConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Path    string `toml:"path" env:"PATH"`
}

type AudioConfig struct {
	Enabled    bool `toml:"enabled" env:"ENABLED"`
	TypingBlip bool `toml:"typing_blip" env:"TYPING_BLIP"`
}

type LogConfig struct {
	Enabled  bool   `toml:"enabled" env:"ENABLED"`
	Dir      string `toml:"dir" env:"DIR"`
	Level    string `toml:"level" env:"LEVEL"`
	Encoding string `toml:"encoding" env:"ENCODING"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Story:        "assets/story.json",
		InitialScene: constants.SceneTitle,
		Keymap:       "keys.toml",
		Timing: TimingConfig{
			SpeedNormal:    Duration{constants.SpeedNormal},
			SpeedSystem:    Duration{constants.SpeedSystem},
			SpeedChapter:   Duration{constants.SpeedChapter},
			SettleTitle:    Duration{constants.SettleTitle},
			SettleHiddenUI: Duration{constants.SettleHiddenUI},
			SettleEllipsis: Duration{constants.SettleEllipsis},
			SettleDefault:  Duration{constants.SettleDefault},
			Toast:          Duration{constants.ToastDuration},
		},
		Save: SaveConfig{
			Backend: save.BackendFile,
			Path:    "saves/endings.json",
		},
		Audio: AudioConfig{
			Enabled:    true,
			TypingBlip: true,
		},
		Log: LogConfig{
			Dir:      "logs",
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Engine converts the timing section for the session
func (t TimingConfig) Engine() engine.Timing {
	return engine.Timing{
		SpeedNormal:    t.SpeedNormal.Duration,
		SpeedSystem:    t.SpeedSystem.Duration,
		SpeedChapter:   t.SpeedChapter.Duration,
		SettleTitle:    t.SettleTitle.Duration,
		SettleHiddenUI: t.SettleHiddenUI.Duration,
		SettleEllipsis: t.SettleEllipsis.Duration,
		SettleDefault:  t.SettleDefault.Duration,
		Toast:          t.Toast.Duration,
	}
}

// Validate checks ranges and cross-field constraints
func (c *Config) Validate() error {
	if c.Story == "" {
		return fmt.Errorf("%w: story path is empty", ErrInvalid)
	}
	if c.InitialScene == "" {
		return fmt.Errorf("%w: initial scene is empty", ErrInvalid)
	}

	t := c.Timing
	if t.SpeedNormal.Duration <= 0 {
		return fmt.Errorf("%w: speed_normal must be positive", ErrInvalid)
	}
	// Chapter text reveals slowest, system text slower than dialogue
	if t.SpeedSystem.Duration <= t.SpeedNormal.Duration {
		return fmt.Errorf("%w: speed_system %s must be slower than speed_normal %s", ErrInvalid, t.SpeedSystem, t.SpeedNormal)
	}
	if t.SpeedChapter.Duration <= t.SpeedSystem.Duration {
		return fmt.Errorf("%w: speed_chapter %s must be slower than speed_system %s", ErrInvalid, t.SpeedChapter, t.SpeedSystem)
	}
	for name, d := range map[string]Duration{
		"settle_title":     t.SettleTitle,
		"settle_hidden_ui": t.SettleHiddenUI,
		"settle_ellipsis":  t.SettleEllipsis,
		"settle_default":   t.SettleDefault,
	} {
		if d.Duration < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalid, name)
		}
	}
	if t.Toast.Duration <= 0 {
		return fmt.Errorf("%w: toast must be positive", ErrInvalid)
	}

	switch c.Save.Backend {
	case save.BackendFile, save.BackendSQLite:
		if c.Save.Path == "" {
			return fmt.Errorf("%w: save path is empty for backend %q", ErrInvalid, c.Save.Backend)
		}
	case save.BackendMemory:
	default:
		return fmt.Errorf("%w: %q: %w", ErrInvalid, c.Save.Backend, save.ErrUnknownBackend)
	}

	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log encoding %q", ErrInvalid, c.Log.Encoding)
	}
	return nil
}

// LoadFile overlays a TOML file onto c; a missing file is not an error
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays VINOVEL_* variables from environ onto c.
// A nil environ reads the process environment.
func (c *Config) LoadEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Flags are the command-line switches
type Flags struct {
	ConfigPath string
	Story      string
	Scene      string
	Keymap     string
	Debug      bool
	Mute       bool

	set map[string]bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(args []string, output io.Writer) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("vi-novel", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.ConfigPath, "config", "vi-novel.toml", "Path to the TOML config file")
	fs.StringVar(&f.Story, "story", "", "Path to the story JSON document")
	fs.StringVar(&f.Scene, "scene", "", "Scene id to start from")
	fs.StringVar(&f.Keymap, "keys", "", "Path to a TOML key rebinding file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging to the log directory")
	fs.BoolVar(&f.Mute, "mute", false, "Disable audio")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply overrides c with the flags given on the command line
func (f *Flags) apply(c *Config) {
	if f.set["story"] {
		c.Story = f.Story
	}
	if f.set["scene"] {
		c.InitialScene = f.Scene
	}
	if f.set["keys"] {
		c.Keymap = f.Keymap
	}
	if f.Debug {
		c.Log.Enabled = true
		c.Log.Level = "debug"
	}
	if f.Mute {
		c.Audio.Enabled = false
	}
}

// Load builds the configuration for a run: defaults, file, environment, flags
func Load(args []string, environ map[string]string, output io.Writer) (*Config, error) {
	flags, err := ParseFlags(args, output)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.LoadFile(flags.ConfigPath); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(environ); err != nil {
		return nil, err
	}
	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
