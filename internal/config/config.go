// Package config handles loading and saving user configuration for dhatu.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/script"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.yaml"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all user configuration.
type Config struct {
	// Lexicon is a path or http(s) URL of the dhatupatha TSV.
	Lexicon string `yaml:"lexicon"`
	// LexiconTimeout bounds fetching a lexicon URL at startup.
	LexiconTimeout time.Duration `yaml:"lexicon_timeout"`
	Engine         EngineConfig  `yaml:"engine"`
	Display        DisplayConfig `yaml:"display"`
	// Workers bounds concurrent engine calls during paradigm generation.
	Workers int       `yaml:"workers"`
	Log     LogConfig `yaml:"log"`
}

// EngineConfig selects the derivation engine.
type EngineConfig struct {
	Kind    string        `yaml:"kind"`    // "sqlite" or "http"
	DSN     string        `yaml:"dsn"`     // sqlite database path
	URL     string        `yaml:"url"`     // base URL of an http engine
	Timeout time.Duration `yaml:"timeout"` // per-request timeout of an http engine
}

// DisplayConfig controls how Sanskrit text is shown.
type DisplayConfig struct {
	Script string `yaml:"script"` // slp1, hk, iast or devanagari

	// Templates overrides the text/template used by the commands, keyed by
	// name: roots, finite, derived or trace.
	Templates map[string]string `yaml:"templates,omitempty"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty means stderr for commands, <dir>/dhatu.log for the TUI
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Lexicon:        "data/dhatupatha.tsv",
		LexiconTimeout: time.Minute,
		Engine: EngineConfig{
			Kind:    "sqlite",
			DSN:     "data/prakriya.db",
			Timeout: 30 * time.Second,
		},
		Display: DisplayConfig{Script: "devanagari"},
		Workers: 4,
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads dir/config.yaml over the defaults. A missing file yields the
// defaults.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to dir/config.yaml.
func (c *Config) Save(dir string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Keys are the viper keys Overlay reads. They mirror the YAML paths.
var Keys = []string{
	"lexicon",
	"lexicon_timeout",
	"engine.kind",
	"engine.dsn",
	"engine.url",
	"engine.timeout",
	"display.script",
	"workers",
	"log.level",
	"log.file",
}

// EnvPrefix prefixes environment overrides, e.g. DHATU_ENGINE_KIND.
const EnvPrefix = "DHATU"

// NewViper returns a viper instance reading DHATU_* environment variables
// for every key in Keys. Callers bind their flags to it.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range Keys {
		_ = v.BindEnv(key)
	}
	return v
}

// Overlay copies every key set in v (by flag or environment) over c.
func (c *Config) Overlay(v *viper.Viper) {
	set := func(key string, apply func()) {
		if v.IsSet(key) {
			apply()
		}
	}
	set("lexicon", func() { c.Lexicon = v.GetString("lexicon") })
	set("lexicon_timeout", func() { c.LexiconTimeout = v.GetDuration("lexicon_timeout") })
	set("engine.kind", func() { c.Engine.Kind = v.GetString("engine.kind") })
	set("engine.dsn", func() { c.Engine.DSN = v.GetString("engine.dsn") })
	set("engine.url", func() { c.Engine.URL = v.GetString("engine.url") })
	set("engine.timeout", func() { c.Engine.Timeout = v.GetDuration("engine.timeout") })
	set("display.script", func() { c.Display.Script = v.GetString("display.script") })
	set("workers", func() { c.Workers = v.GetInt("workers") })
	set("log.level", func() { c.Log.Level = v.GetString("log.level") })
	set("log.file", func() { c.Log.File = v.GetString("log.file") })
}

// Validate reports the first problem found, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if c.Lexicon == "" {
		return fmt.Errorf("%w: lexicon is empty", ErrInvalid)
	}
	if c.LexiconTimeout <= 0 {
		return fmt.Errorf("%w: lexicon_timeout must be positive, got %s", ErrInvalid, c.LexiconTimeout)
	}
	if !slices.Contains(engine.Kinds, c.Engine.Kind) {
		return fmt.Errorf("%w: engine.kind %q (want one of %v)", ErrInvalid, c.Engine.Kind, engine.Kinds)
	}
	if c.Engine.Kind == "http" && c.Engine.URL == "" {
		return fmt.Errorf("%w: engine.url is required for the http engine", ErrInvalid)
	}
	if _, err := c.Script(); err != nil {
		return fmt.Errorf("%w: display.script: %v", ErrInvalid, err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// Script returns the display scheme.
func (c *Config) Script() (script.Scheme, error) {
	return script.ParseScheme(c.Display.Script)
}

// DefaultDir returns the default configuration directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dhatu"), nil
}
