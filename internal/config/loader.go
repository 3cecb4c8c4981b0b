package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// LoaderOption configures a Loader.
type LoaderOption func(*loader)

// WithConfigFile reads an explicit file instead of searching .fndep/.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) {
		l.configFile = path
	}
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{
		rootDir: rootDir,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (FNDEP_*)
// 2. Config file (.fndep/config.yml or .fndep/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	v.SetEnvPrefix("FNDEP")
	v.AutomaticEnv()
	// FNDEP_ANALYSIS_MAX_DEPTH -> analysis.max_depth
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("paths.include_extensionless")

	v.BindEnv("analysis.max_depth")
	v.BindEnv("analysis.max_files")
	v.BindEnv("analysis.min_body_length")
	v.BindEnv("analysis.read_workers")

	v.BindEnv("output.format")
	v.BindEnv("output.dir")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; an explicit --config path must exist.
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.code", defaults.Paths.Code)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("paths.include_extensionless", defaults.Paths.IncludeExtensionless)

	v.SetDefault("analysis.max_depth", defaults.Analysis.MaxDepth)
	v.SetDefault("analysis.max_files", defaults.Analysis.MaxFiles)
	v.SetDefault("analysis.min_body_length", defaults.Analysis.MinBodyLength)
	v.SetDefault("analysis.read_workers", defaults.Analysis.ReadWorkers)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.dir", defaults.Output.Dir)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string, opts ...LoaderOption) (*Config, error) {
	return NewLoader(rootDir, opts...).Load()
}
