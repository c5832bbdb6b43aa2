package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/lc/confkeep/internal/log"
	"github.com/lc/confkeep/pkg/editor"
	"github.com/lc/confkeep/pkg/serializer"
)

const (
	// DefaultConfigPath is the config file location relative to the home directory.
	DefaultConfigPath = ".confkeep/config.yaml"
	// DefaultTimeFormat is the default layout for timestamps in output.
	DefaultTimeFormat = "2006-01-02 15:04:05"
	// DefaultLanguage is the default profile language.
	DefaultLanguage = "en"
)

// Config holds the application configuration.
type Config struct {
	Display DisplayConfig `yaml:"display" json:"display" toml:"display"`
	Profile ProfileConfig `yaml:"profile" json:"profile" toml:"profile"`
}

// DisplayConfig holds output-related configuration.
type DisplayConfig struct {
	Color      bool   `yaml:"color" json:"color" toml:"color"`
	Border     bool   `yaml:"border" json:"border" toml:"border"`
	TimeFormat string `yaml:"time_format" json:"time_format" toml:"time_format"`
}

// ProfileConfig holds user identity configuration.
type ProfileConfig struct {
	Name     string `yaml:"name" json:"name" toml:"name"`
	Language string `yaml:"language" json:"language" toml:"language"`
}

// Default returns a default configuration with preset values.
// This is used when no usable configuration file exists.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Color:      true,
			Border:     false,
			TimeFormat: DefaultTimeFormat,
		},
		Profile: ProfileConfig{
			Name:     "",
			Language: DefaultLanguage,
		},
	}
}

// Fields lists every key a stored config must carry.
func (c *Config) Fields() []string {
	return []string{
		"display",
		"display.color",
		"display.border",
		"display.time_format",
		"profile",
		"profile.name",
		"profile.language",
	}
}

// Validate checks the values a present key can still leave unusable.
func (c *Config) Validate() error {
	var err error
	if strings.TrimSpace(c.Display.TimeFormat) == "" {
		err = multierr.Append(err, errors.New("display time format cannot be empty"))
	}
	if strings.TrimSpace(c.Profile.Language) == "" {
		err = multierr.Append(err, errors.New("profile language cannot be empty"))
	}
	return err
}

// DefaultPath returns ~/.confkeep/config.yaml. If the home directory cannot
// be determined it falls back to the current directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("could not determine home directory: %v", err)
		home = ""
	}
	return filepath.Join(home, DefaultConfigPath)
}

// NewSerializer returns the serializer for the config file at path.
// An empty path means DefaultPath.
func NewSerializer(path string, opts ...serializer.Option) *serializer.Serializer[Config, *Config] {
	if path == "" {
		path = DefaultPath()
	}
	return serializer.New[Config](path, Default, opts...)
}

// Options exposes the editable settings of c.
func Options(c *Config) []editor.Option {
	return []editor.Option{
		boolOption("display.color", "Colorize output", &c.Display.Color),
		boolOption("display.border", "Draw table borders", &c.Display.Border),
		stringOption("display.time_format", "Go time layout for timestamps", &c.Display.TimeFormat, true),
		stringOption("profile.name", "Display name", &c.Profile.Name, false),
		stringOption("profile.language", "Preferred language", &c.Profile.Language, true),
	}
}

func boolOption(key, desc string, v *bool) editor.Option {
	return editor.Option{
		Key:         key,
		Description: desc,
		Get:         func() string { return strconv.FormatBool(*v) },
		Set: func(s string) error {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", s)
			}
			*v = b
			return nil
		},
	}
}

func stringOption(key, desc string, v *string, required bool) editor.Option {
	return editor.Option{
		Key:         key,
		Description: desc,
		Get:         func() string { return *v },
		Set: func(s string) error {
			if required && strings.TrimSpace(s) == "" {
				return errors.New("value cannot be empty")
			}
			*v = s
			return nil
		},
	}
}
