// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables that override settings
	EnvPrefix = "ZETAFOLD"

	// DefaultParams is the parameter set used when none is given
	DefaultParams = "zetafold"
)

// RootDir is the directory with the registry and settings file, ~/.zetafold
var RootDir = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zetafold"
	}
	return filepath.Join(home, ".zetafold")
}()

// RootSettingsFile is the default settings file
var RootSettingsFile = filepath.Join(RootDir, "settings.yaml")

// FoldConfig is settings for folding
type FoldConfig struct {
	// the number of structures to sample from the ensemble
	Samples int `mapstructure:"samples"`

	// seed for the sampler. 0 seeds from the clock
	Seed uint64 `mapstructure:"seed"`

	// whether to ligate the sequence's ends
	Circle bool `mapstructure:"circle"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.yaml, the environment
// and those available from the command line
type Config struct {
	// path to the parameter set registry
	DB string `mapstructure:"db"`

	// the parameter set to fold with: a file, name or name@version
	Params string `mapstructure:"params"`

	// log level: debug, info, warn or error
	LogLevel string `mapstructure:"log-level"`

	// fold settings
	Fold FoldConfig `mapstructure:"fold"`
}

// SetDefaults sets the lowest precedence value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", filepath.Join(RootDir, "zetafold.db"))
	v.SetDefault("params", DefaultParams)
	v.SetDefault("log-level", "info")
	v.SetDefault("fold.samples", 0)
	v.SetDefault("fold.seed", 0)
	v.SetDefault("fold.circle", false)
}

// Setup prepares v to read the settings file and the environment. A
// missing settings file is fine if it's the default one.
func Setup(v *viper.Viper, settingsFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if settingsFile == "" {
		settingsFile = RootSettingsFile
	}
	v.SetConfigFile(settingsFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if settingsFile == RootSettingsFile && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read settings file %s: %w", settingsFile, err)
	}
	return nil
}

// Load returns a new Config struct populated by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode settings: %w", err)
	}
	if c.Fold.Samples < 0 {
		return Config{}, fmt.Errorf("fold.samples must be >= 0, got %d", c.Fold.Samples)
	}
	if _, err := c.Level(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// New returns a new Config struct populated by the global Viper settings
// (either from the settings file, the environment and/or command line
// arguments)
func New() (Config, error) {
	return Load(viper.GetViper())
}

// Level is the log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log-level %q", c.LogLevel)
	}
	return l, nil
}
