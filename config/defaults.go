package config

import (
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	// DefaultOutputDir is the default output directory for distributed binaries.
	DefaultOutputDir = "binaries"

	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false

	// DefaultEnableColor is the default color output setting.
	DefaultEnableColor = false
)

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("output_dir", DefaultOutputDir)
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
	viperInstance.SetDefault("enable_color", DefaultEnableColor)
	viperInstance.SetDefault("extra_artifacts", []string{})
	viperInstance.SetDefault("env_file", "")
}
