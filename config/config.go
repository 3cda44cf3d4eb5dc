package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all firmhook configuration values.
type Config struct {
	// OutputDir is the directory name under the working directory where
	// distributed binaries are placed.
	OutputDir string `mapstructure:"output_dir"`

	// Verbose enables verbose output when running hooks.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// EnableColor enables colored output in terminal.
	EnableColor bool `mapstructure:"enable_color"`

	// ExtraArtifacts are glob patterns for additional build artifacts to
	// copy alongside the binary (e.g. "*.elf", "*.map").
	ExtraArtifacts []string `mapstructure:"extra_artifacts"`

	// EnvFile is an optional dotenv file merged into the build environment.
	EnvFile string `mapstructure:"env_file"`

	// configFile is the path to the config file that was loaded (if any).
	configFile string
}

// ConfigFile returns the path to the configuration file that was loaded,
// or an empty string if no file was loaded.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config.
	// If empty, the current working directory is used.
	ProjectDir string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults
//  2. User config file (~/.config/firmhook/config.yaml)
//  3. Project config file (./firmhook.yaml)
//  4. Environment variables (FIRMHOOK_*)
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()

	// Set defaults
	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	var configFileUsed string

	// Load user config from XDG path (~/.config/firmhook/config.yaml)
	if !opts.SkipUserConfig {
		paths := ResolveXDGPaths()
		viperInstance.SetConfigName(ConfigFileName)
		viperInstance.AddConfigPath(paths.ConfigDir())

		if err := viperInstance.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			configFileUsed = viperInstance.ConfigFileUsed()
		}
	}

	// Load project config (./firmhook.yaml) - merges with/overrides user config
	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := filepath.Join(projectDir, ProjectConfigFileName+".yaml")
		if _, err := os.Stat(projectConfigPath); err == nil {
			viperInstance.SetConfigFile(projectConfigPath)
			if err := viperInstance.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			configFileUsed = projectConfigPath
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply environment variable overrides (env vars take precedence over config files)
	if !opts.SkipEnv {
		applyEnvironmentOverrides(&cfg)
	}

	// Record which config file was used (project config takes precedence for display)
	cfg.configFile = configFileUsed

	// Validate configuration
	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Environment variables take precedence over config file values.
func applyEnvironmentOverrides(cfg *Config) {
	// parseBool interprets a string as a boolean value.
	parseBool := func(v string) bool {
		return v == "1" || v == "true" || v == "TRUE" || v == "True"
	}

	// Apply overrides
	if v := os.Getenv("FIRMHOOK_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("FIRMHOOK_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("FIRMHOOK_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("FIRMHOOK_ENABLE_COLOR"); v != "" {
		cfg.EnableColor = parseBool(v)
	}
	if v := os.Getenv("FIRMHOOK_EXTRA_ARTIFACTS"); v != "" {
		cfg.ExtraArtifacts = splitPatternList(v)
	}
	if v := os.Getenv("FIRMHOOK_ENV_FILE"); v != "" {
		cfg.EnvFile = v
	}
}

// splitPatternList splits a comma-separated pattern list, dropping empty entries.
func splitPatternList(v string) []string {
	var patterns []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		Verbose:     DefaultVerbose,
		Debug:       DefaultDebug,
		EnableColor: DefaultEnableColor,
	}
}

// WriteDefaultConfig writes a default configuration file to the user's config directory.
func WriteDefaultConfig() (string, error) {
	paths := ResolveXDGPaths()
	configDir := paths.ConfigDir()

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := paths.ConfigFilePath()

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	// Write default config with 0600 permissions for security
	content := defaultConfigYAML()
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// defaultConfigYAML returns the default configuration as YAML.
func defaultConfigYAML() string {
	return `# firmhook Configuration

# Directory name (under the build's working directory) where distributed
# binaries are placed.
output_dir: binaries

# Enable verbose output when running hooks.
verbose: false

# Enable debug messages.
debug: false

# Enable colored output in terminal.
enable_color: false

# Glob patterns for additional build artifacts to copy alongside the binary.
# extra_artifacts:
#   - "*.elf"
#   - "*.map"

# Optional dotenv file merged into the build environment.
# env_file: .firmhook.env
`
}
