// Package config handles configuration file discovery and loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the configuration file searched for from the working directory up.
const FileName = ".cargotecture.yaml"

// EnvPrefix prefixes environment overrides, e.g. CARGOTECTURE_STRICT=true.
const EnvPrefix = "CARGOTECTURE"

// ErrNotFound indicates no configuration file was found.
var ErrNotFound = errors.New("config file not found")

// Config holds the cargotecture settings.
type Config struct {
	// Formats lists the renderings the containerfile command produces when
	// --format is not given.
	Formats []string `mapstructure:"formats"`

	// StableIDs names rendered ports and volumes by content instead of position.
	StableIDs bool `mapstructure:"stable_ids"`

	// OutputDir receives rendered files; empty means stdout.
	OutputDir string `mapstructure:"output_dir"`

	// Strict makes compose warnings fail validation.
	Strict bool `mapstructure:"strict"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Path is the config file that was read, empty when none was.
	Path string `mapstructure:"-"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Formats:  []string{},
		LogLevel: "warn",
	}
}

// FindFile searches upward from the current directory for FileName.
func FindFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return findFileFrom(dir)
}

func findFileFrom(dir string) (string, error) {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s in working directory or its parents", ErrNotFound, FileName)
}

// Load reads the configuration at path. An empty path searches with FindFile
// and falls back to Defaults when nothing is found. Environment variables
// prefixed with EnvPrefix override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := FindFile()
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		path = found
	}

	defaults := Defaults()
	v := viper.New()
	v.SetDefault("formats", defaults.Formats)
	v.SetDefault("stable_ids", defaults.StableIDs)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.Path = path

	return &cfg, nil
}
