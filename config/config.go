// Package config handles TOML configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Tools    ToolsConfig    `toml:"tools"`
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults
	Path string `toml:"-"`
}

// ToolsConfig overrides where external programs are found.
// Empty values mean PATH lookup or the built-in search.
type ToolsConfig struct {
	FFprobe      string   `toml:"ffprobe"`
	FFmpeg       string   `toml:"ffmpeg"`
	Avidemux     string   `toml:"avidemux"`
	HandBrake    string   `toml:"handbrake"`
	Opener       string   `toml:"opener"`
	ProbeTimeout Duration `toml:"probe_timeout"`
}

// DefaultsConfig seeds a new session.
type DefaultsConfig struct {
	InputDir   string `toml:"input_dir"`
	OutputDir  string `toml:"output_dir"`
	Format     string `toml:"format"`
	OnConflict string `toml:"on_conflict"`
	OpenOutput *bool  `toml:"open_output"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ShouldOpenOutput reports whether the output directory is opened after the first success.
func (c *Config) ShouldOpenOutput() bool {
	return c.Defaults.OpenOutput == nil || *c.Defaults.OpenOutput
}

func (c *Config) applyDefaults() {
	if c.Tools.ProbeTimeout.Duration == 0 {
		c.Tools.ProbeTimeout.Duration = 10 * time.Second
	}
	if c.Defaults.Format == "" {
		c.Defaults.Format = "resolve"
	}
	if c.Defaults.OnConflict == "" {
		c.Defaults.OnConflict = "ask"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Path = path
	cfg.applyDefaults()

	cfgErr := &Error{Path: path}
	for _, key := range md.Undecoded() {
		cfgErr.Unknown = append(cfgErr.Unknown, key.String())
	}
	cfgErr.Errors = cfg.Validate()
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}

	return &cfg, nil
}

// LoadDefault discovers and loads the configuration file, falling back to
// defaults when none exists.
func LoadDefault() (*Config, error) {
	path, err := Discover()
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}
