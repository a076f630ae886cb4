package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/passgen/internal/alphabet"
	"github.com/simonhull/firebird-suite/passgen/internal/generator"
	"github.com/simonhull/firebird-suite/passgen/internal/pattern"
)

// FileName is the config file name searched for without an explicit path
const FileName = "passgen.yml"

// EnvPrefix prefixes environment overrides, e.g. PASSGEN_LENGTH
const EnvPrefix = "PASSGEN"

// Config represents passgen.yml
type Config struct {
	Length     int              `yaml:"length" mapstructure:"length"`
	Count      int              `yaml:"count" mapstructure:"count"`
	Template   TemplateConfig   `yaml:"template" mapstructure:"template"`
	Exclusions ExclusionConfig  `yaml:"exclusions" mapstructure:"exclusions"`
	Alphabets  []AlphabetConfig `yaml:"alphabets,omitempty" mapstructure:"alphabets"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// TemplateConfig holds template interpreter settings
type TemplateConfig struct {
	Remainder    string `yaml:"remainder" mapstructure:"remainder"`
	OnUnresolved string `yaml:"on_unresolved" mapstructure:"on_unresolved"`
}

// ExclusionConfig controls whether '^' exclusions outlive a single password
type ExclusionConfig struct {
	Persist bool `yaml:"persist" mapstructure:"persist"`
}

// AlphabetConfig defines or overrides one registry code
type AlphabetConfig struct {
	Code  string `yaml:"code" mapstructure:"code"`
	Chars string `yaml:"chars" mapstructure:"chars"`
}

// LogConfig holds logging settings
type LogConfig struct {
	File      string `yaml:"file,omitempty" mapstructure:"file"`
	Verbosity int    `yaml:"verbosity" mapstructure:"verbosity"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Length: generator.DefaultLength,
		Count:  1,
		Template: TemplateConfig{
			Remainder:    pattern.RemainderPositional.String(),
			OnUnresolved: pattern.UnresolvedDrop.String(),
		},
	}
}

// Load reads configuration from path, or from passgen.yml in the working
// directory or $HOME/.config/passgen when path is empty. A missing file in
// the search path yields the defaults; a missing explicit path is an error.
// PASSGEN_* environment variables override file values.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("length", def.Length)
	v.SetDefault("count", def.Count)
	v.SetDefault("template.remainder", def.Template.Remainder)
	v.SetDefault("template.on_unresolved", def.Template.OnUnresolved)
	v.SetDefault("exclusions.persist", def.Exclusions.Persist)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.verbosity", def.Log.Verbosity)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "passgen"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Length: v.GetInt("length"),
		Count:  v.GetInt("count"),
		Template: TemplateConfig{
			Remainder:    v.GetString("template.remainder"),
			OnUnresolved: v.GetString("template.on_unresolved"),
		},
		Exclusions: ExclusionConfig{
			Persist: v.GetBool("exclusions.persist"),
		},
		Log: LogConfig{
			File:      v.GetString("log.file"),
			Verbosity: v.GetInt("log.verbosity"),
		},
	}
	if err := v.UnmarshalKey("alphabets", &cfg.Alphabets); err != nil {
		return nil, fmt.Errorf("parsing alphabets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enum names
func (c *Config) Validate() error {
	if c.Length < 0 {
		return fmt.Errorf("length must not be negative, got %d", c.Length)
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if _, err := c.RemainderMode(); err != nil {
		return err
	}
	if _, err := c.UnresolvedPolicy(); err != nil {
		return err
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// RemainderMode parses template.remainder
func (c *Config) RemainderMode() (pattern.RemainderMode, error) {
	return pattern.ParseRemainderMode(c.Template.Remainder)
}

// UnresolvedPolicy parses template.on_unresolved
func (c *Config) UnresolvedPolicy() (pattern.UnresolvedPolicy, error) {
	return pattern.ParseUnresolvedPolicy(c.Template.OnUnresolved)
}

// Registry returns the built-in registry with the configured alphabets
// applied in order.
func (c *Config) Registry() (alphabet.Registry, error) {
	reg := alphabet.Default()
	for _, a := range c.Alphabets {
		if utf8.RuneCountInString(a.Code) != 1 {
			return reg, fmt.Errorf("alphabet code %q: %w: must be a single character", a.Code, alphabet.ErrInvalidCode)
		}
		code, _ := utf8.DecodeRuneInString(a.Code)

		var err error
		reg, err = reg.With(code, a.Chars)
		if err != nil {
			return reg, fmt.Errorf("alphabet %q: %w", a.Code, err)
		}
	}
	return reg, nil
}

// Marshal renders the config as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// SaveConfig writes configuration to a YAML file
func SaveConfig(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
