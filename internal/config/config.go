// Package config resolves promptdeck settings from defaults, an optional
// config.yaml, PROMPTDECK_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys understood in config.yaml and as PROMPTDECK_<KEY> variables
const (
	KeyDir      = "dir"
	KeyMode     = "mode"
	KeyEditor   = "editor"
	KeyLogLevel = "log_level"
	KeyInclude  = "include"
)

const (
	ModeQuick  = "quick"
	ModeManage = "manage"

	defaultDir     = "~/.promptdeck"
	defaultInclude = "**.md"
)

// Config holds the resolved settings
type Config struct {
	Dir      string
	Mode     string
	Editor   string
	LogLevel string
	Include  string

	// ConfigFile is the file that was read, empty when none was found
	ConfigFile string
}

// New returns a viper instance with defaults, env binding and search paths set
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDir, defaultDir)
	v.SetDefault(KeyMode, ModeQuick)
	v.SetDefault(KeyEditor, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyInclude, defaultInclude)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PROMPTDECK")
	v.AutomaticEnv()

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "promptdeck"))
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "promptdeck"))
	}
	return v
}

// Load reads the config file (if any) and validates the result. An explicit
// file set with SetConfigFile must exist; a missing default file is fine.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	dir, err := homedir.Expand(v.GetString(KeyDir))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyDir, err)
	}

	cfg := &Config{
		Dir:        filepath.Clean(dir),
		Mode:       strings.ToLower(strings.TrimSpace(v.GetString(KeyMode))),
		Editor:     strings.TrimSpace(v.GetString(KeyEditor)),
		LogLevel:   v.GetString(KeyLogLevel),
		Include:    v.GetString(KeyInclude),
		ConfigFile: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and the include pattern
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeQuick, ModeManage:
	default:
		return fmt.Errorf("invalid %s %q: want %q or %q", KeyMode, c.Mode, ModeQuick, ModeManage)
	}
	if _, err := glob.Compile(c.Include, '/'); err != nil {
		return fmt.Errorf("invalid %s pattern %q: %w", KeyInclude, c.Include, err)
	}
	return nil
}

// Management reports whether the session starts in management mode
func (c *Config) Management() bool {
	return c.Mode == ModeManage
}
