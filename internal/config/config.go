// Package config loads the project configuration of the generator: where
// catalogs, sources and targets live, generator options, logging, and the
// generation units to run.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"torque-generator/internal/controller"
)

// Sentinel validation errors.
var (
	ErrNoCatalogs       = errors.New("at least one outlet catalog is required")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrDuplicateUnit    = errors.New("duplicate generation unit")
)

// keyDelimiter replaces viper's "." so option names like
// "torque.sql.owner" stay single keys.
const keyDelimiter = "::"

// Default configuration values.
const (
	DefaultSourceDir = "src/main/schema"
	DefaultTargetDir = "target/generated-sources"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the whole project configuration.
type Config struct {
	Generator GeneratorConfig         `mapstructure:"generator"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Units     []controller.UnitConfig `mapstructure:"units"`

	// Dir is the directory of the configuration file; relative directories
	// are resolved against it.
	Dir string `mapstructure:"-"`
}

// GeneratorConfig holds settings shared by all units.
type GeneratorConfig struct {
	// Catalogs are outlet catalog files, relative to SourceDir.
	Catalogs  []string `mapstructure:"catalogs"`
	SourceDir string   `mapstructure:"source_dir"`
	TargetDir string   `mapstructure:"target_dir"`
	// Debug frames every outlet output with comments naming the outlet.
	Debug bool `mapstructure:"debug"`
	// KeepUnformatted writes the raw output next to outputs that could not
	// be formatted.
	KeepUnformatted bool           `mapstructure:"keep_unformatted"`
	Options         map[string]any `mapstructure:"options"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty configPath searches torque.yaml in the working directory.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("torque")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("TORQUE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	config.Dir = "."
	if used := viperCfg.ConfigFileUsed(); used != "" {
		config.Dir = filepath.Dir(used)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault(key("generator", "source_dir"), DefaultSourceDir)
	viperCfg.SetDefault(key("generator", "target_dir"), DefaultTargetDir)
	viperCfg.SetDefault(key("generator", "debug"), false)
	viperCfg.SetDefault(key("generator", "keep_unformatted"), false)

	viperCfg.SetDefault(key("logging", "level"), DefaultLogLevel)
	viperCfg.SetDefault(key("logging", "format"), DefaultLogFormat)
}

func key(parts ...string) string {
	return strings.Join(parts, keyDelimiter)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if len(config.Generator.Catalogs) == 0 {
		return ErrNoCatalogs
	}

	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	seen := make(map[string]bool, len(config.Units))

	for i := range config.Units {
		u := &config.Units[i]
		if seen[u.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateUnit, u.Name)
		}

		seen[u.Name] = true

		if err := u.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Path resolves a directory of the configuration against Dir.
func (c *Config) Path(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(c.Dir, dir)
}
