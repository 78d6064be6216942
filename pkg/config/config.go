// Package config layers defaults, mindmap.toml, MINDMAP_* environment
// variables and command-line flags into a Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is read from the working directory when present
const DefaultFile = "mindmap.toml"

const envPrefix = "MINDMAP_"

// Config holds all settings for the mindmap command
type Config struct {
	ConfigFile string `koanf:"config"`
	Dataset    string `koanf:"dataset"`
	Anchor     string `koanf:"anchor"`

	WebMode     bool `koanf:"web"`
	Port        int  `koanf:"port"`
	Watch       bool `koanf:"watch"`
	OpenBrowser bool `koanf:"open"`

	Render string `koanf:"render"` // .svg or .png snapshot path
	Merge  string `koanf:"merge"`  // Consolidated output path for a merged directory
	Sort   string `koanf:"sort"`   // Node table order in the console report

	Width      int     `koanf:"width"`
	Height     int     `koanf:"height"`
	Distance   float64 `koanf:"distance"`
	Iterations int     `koanf:"iterations"`

	Verbosity  string `koanf:"verbosity"`
	VerboseCnt int    `koanf:"verbose"`
	LogFormat  string `koanf:"log-format"`
}

// Defaults returns the built-in settings
func Defaults() map[string]any {
	return map[string]any{
		"config":     DefaultFile,
		"dataset":    "data.json",
		"anchor":     "Astronomy",
		"web":        false,
		"port":       8080,
		"watch":      false,
		"open":       false,
		"render":     "",
		"merge":      "",
		"sort":       "",
		"width":      1280,
		"height":     800,
		"distance":   120.0,
		"iterations": 50,
		"verbosity":  "",
		"verbose":    0,
		"log-format": "text",
	}
}

// Load resolves the configuration. Priority: flags > env > file > defaults.
// A missing config file is not an error; a malformed one is.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := DefaultFile
	if f != nil {
		if flag := f.Lookup("config"); flag != nil && flag.Changed {
			path = flag.Value.String()
		}
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	// MINDMAP_LOG_FORMAT -> log-format
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigFile = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport %dx%d must be positive", c.Width, c.Height))
	}
	if c.Distance <= 0 {
		errs = append(errs, fmt.Errorf("distance %g must be positive", c.Distance))
	}
	if c.Iterations < 0 {
		errs = append(errs, fmt.Errorf("iterations %d must not be negative", c.Iterations))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log-format %q must be text or json", c.LogFormat))
	}
	if c.Dataset == "" {
		errs = append(errs, errors.New("dataset path is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// mapProvider feeds a plain map to koanf
type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
