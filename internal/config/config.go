// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"bundlectl/pkg/bundlefeed"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "bundlectl"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// EnvSourceURI is the ambient override for the feed base URL, shared
	// with the function host tooling ecosystem.
	EnvSourceURI = "FUNCTIONS_EXTENSIONBUNDLE_SOURCE_URI"
	// EnvStaging switches feed resolution to the staging CDN.
	EnvStaging = "BUNDLECTL_STAGING"
)

type (
	// Config is the resolved bundlectl configuration.
	Config struct {
		// SourceURI overrides the feed base URL when set.
		SourceURI string `mapstructure:"source_uri" toml:"source_uri"`
		// Staging routes feed requests to the staging CDN.
		Staging bool `mapstructure:"staging" toml:"staging"`
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose" toml:"verbose"`
		// Bundle sets default bundle metadata for CLI invocations.
		Bundle BundleConfig `mapstructure:"bundle" toml:"bundle"`
	}

	// BundleConfig is the default bundle identity used when flags omit it.
	BundleConfig struct {
		// ID is the bundle identifier; empty means the platform default.
		ID string `mapstructure:"id" toml:"id"`
		// Version is a version range constraint; empty means the feed's
		// current default range.
		Version string `mapstructure:"version" toml:"version"`
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{}
}

// ConfigDir returns the bundlectl configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration from the config file (when present) and the
// environment. A missing config file is not an error; environment values
// win over file values.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := Default()
	v.SetDefault("source_uri", defaults.SourceURI)
	v.SetDefault("staging", defaults.Staging)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("bundle.id", defaults.Bundle.ID)
	v.SetDefault("bundle.version", defaults.Bundle.Version)

	if err := v.BindEnv("source_uri", EnvSourceURI); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}
	if err := v.BindEnv("staging", EnvStaging); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if opts.ConfigFilePath != "" {
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			cfgDir, err = ConfigDir()
			if err != nil {
				return nil, err
			}
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(cfgDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// No config file found, defaults plus environment apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes the default config file to dir, creating the directory
// when needed. Fails when the file already exists.
func WriteDefault(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ResolverOptions converts the configuration into the explicit options the
// bundle resolver takes.
func (c *Config) ResolverOptions() bundlefeed.Options {
	return bundlefeed.Options{
		SourceURI: c.SourceURI,
		Staging:   c.Staging,
	}
}

// Metadata returns the default bundle metadata for CLI invocations.
func (c *Config) Metadata() bundlefeed.Metadata {
	return bundlefeed.Metadata{
		ID:      c.Bundle.ID,
		Version: c.Bundle.Version,
	}
}
