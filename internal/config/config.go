// Package config loads crepl settings from TOML or YAML. Command-line flags
// override whatever is loaded here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"crepl/internal/output"
)

// Config is the whole settings file.
type Config struct {
	Session   SessionConfig   `toml:"session" yaml:"session"`
	Libraries LibrariesConfig `toml:"libraries" yaml:"libraries"`
	History   HistoryConfig   `toml:"history" yaml:"history"`
	UI        UIConfig        `toml:"ui" yaml:"ui"`

	// Path is the file the values came from; empty for built-in defaults.
	Path string `toml:"-" yaml:"-"`
}

type SessionConfig struct {
	Mode           string `toml:"mode" yaml:"mode"`
	Prompt         string `toml:"prompt" yaml:"prompt"`
	MaxDiagnostics int    `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

type LibrariesConfig struct {
	Default string   `toml:"default" yaml:"default"` // "" = platform C runtime
	Preload []string `toml:"preload" yaml:"preload"`
}

type HistoryConfig struct {
	File     string `toml:"file" yaml:"file"` // "" = Dir()/history
	Size     int    `toml:"size" yaml:"size"`
	Disabled bool   `toml:"disabled" yaml:"disabled"`
}

type UIConfig struct {
	Mode  string `toml:"mode" yaml:"mode"`   // auto|on|off
	Color string `toml:"color" yaml:"color"` // auto|on|off
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Session: SessionConfig{Mode: "int", Prompt: "$ ", MaxDiagnostics: 100},
		History: HistoryConfig{Size: 1000},
		UI:      UIConfig{Mode: "auto", Color: "auto"},
	}
}

// Dir returns $XDG_CONFIG_HOME/crepl, falling back to ~/.config/crepl.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "crepl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate the config directory: %w", err)
	}
	return filepath.Join(home, ".config", "crepl"), nil
}

// DefaultPath returns Dir()/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path. With an empty path the default location is used and a
// missing file means defaults; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data by the extension of path: .yaml/.yml as YAML,
// anything else as TOML. Keys that are absent keep their defaults.
func Parse(data []byte, path string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// пустой файл = значения по умолчанию
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			slices.Sort(keys)
			return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		if meta.IsDefined("session", "prompt") && cfg.Session.Prompt == "" {
			return Config{}, fmt.Errorf("%s: session.prompt: must not be empty", path)
		}
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	where := c.Path
	if where == "" {
		where = "defaults"
	}
	if _, err := output.Parse(c.Session.Mode); err != nil {
		return fmt.Errorf("%s: session.mode: %w", where, err)
	}
	if c.Session.MaxDiagnostics < 0 {
		return fmt.Errorf("%s: session.max_diagnostics: must not be negative, got %d", where, c.Session.MaxDiagnostics)
	}
	if c.History.Size < 0 {
		return fmt.Errorf("%s: history.size: must not be negative, got %d", where, c.History.Size)
	}
	for i, name := range c.Libraries.Preload {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s: libraries.preload[%d]: empty library name", where, i)
		}
	}
	for key, v := range map[string]string{"ui.mode": c.UI.Mode, "ui.color": c.UI.Color} {
		if err := checkSwitch(v); err != nil {
			return fmt.Errorf("%s: %s: %w", where, key, err)
		}
	}
	return nil
}

func checkSwitch(v string) error {
	switch strings.ToLower(v) {
	case "auto", "on", "off":
		return nil
	}
	return fmt.Errorf("invalid value %q (expected auto|on|off)", v)
}

// OutputMode returns the parsed session.mode.
func (c Config) OutputMode() output.Mode {
	m, _ := output.Parse(c.Session.Mode)
	return m
}

// HistoryPath resolves history.file, defaulting to Dir()/history.
func (c Config) HistoryPath() (string, error) {
	if c.History.File != "" {
		return c.History.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}
