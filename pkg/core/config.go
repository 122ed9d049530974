// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/nuget"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/platform"
)

const (
	// DefaultModuleName is the plugin module that consumes the engine binary
	DefaultModuleName = "WorldLockingTools"

	// DefaultPackagePrefix selects the Frozen World engine package
	DefaultPackagePrefix = "Microsoft.MixedReality.Unity.FrozenWorld.Engine"

	// DefaultBinaryName is the native library shipped in the package
	DefaultBinaryName = "FrozenWorldPlugin.dll"
)

// Config holds wltbuild configuration. Values come from the YAML file
// first, then WLT_* environment variables, then command-line flags.
type Config struct {
	// PluginDir is the root of the plugin; intermediate and binaries
	// directories are created beneath it
	PluginDir string `yaml:"plugin_dir" env:"WLT_PLUGIN_DIR"`

	// ModuleName names the module; it keys the intermediate directory
	ModuleName string `yaml:"module_name" env:"WLT_MODULE_NAME"`

	// ModuleDir holds packages.config; defaults to <plugin>/Source/<module>
	ModuleDir string `yaml:"module_dir" env:"WLT_MODULE_DIR"`

	// TargetsDir holds *.target.toml descriptors
	TargetsDir string `yaml:"targets_dir" env:"WLT_TARGETS_DIR"`

	PackagePrefix string `yaml:"package_prefix" env:"WLT_PACKAGE_PREFIX"`
	BinaryName    string `yaml:"binary_name" env:"WLT_BINARY_NAME"`

	// Installer is "exe" to drive nuget.exe, "feed" to install natively or
	// "auto" to use nuget.exe when the host can run it
	Installer string `yaml:"installer" env:"WLT_INSTALLER"`

	ClientURL      string   `yaml:"client_url" env:"WLT_CLIENT_URL"`
	ClientSHA512   string   `yaml:"client_sha512" env:"WLT_CLIENT_SHA512"`
	ClientLauncher []string `yaml:"client_launcher,omitempty" env:"WLT_CLIENT_LAUNCHER" envSeparator:" "`
	FeedURL        string   `yaml:"feed_url" env:"WLT_FEED_URL"`

	// Timeout bounds each HTTP request; zero waits forever
	Timeout time.Duration `yaml:"timeout" env:"WLT_TIMEOUT"`

	Debug    bool   `yaml:"debug" env:"WLT_DEBUG"`
	LogLevel string `yaml:"log_level" env:"WLT_LOG_LEVEL"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		PluginDir:     "plugin",
		ModuleName:    DefaultModuleName,
		TargetsDir:    "targets",
		PackagePrefix: DefaultPackagePrefix,
		BinaryName:    DefaultBinaryName,
		Installer:     platform.InstallerAuto,
		ClientURL:     nuget.DefaultClientURL,
		FeedURL:       nuget.DefaultFeedURL,
	}
}

// LoadConfig loads configuration from file and the environment. A missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfigPath is $HOME/.config/wltbuild/config.yaml, or a relative
// config.yaml when there is no home directory
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "wltbuild", "config.yaml")
}

// Validate checks values that have no usable fallback
func (c *Config) Validate() error {
	switch c.Installer {
	case platform.InstallerAuto, platform.InstallerExe, platform.InstallerFeed:
	default:
		return fmt.Errorf("unknown installer %q (want auto, exe or feed)", c.Installer)
	}
	if c.ModuleName == "" {
		return fmt.Errorf("module_name is required")
	}
	if c.PackagePrefix == "" {
		return fmt.Errorf("package_prefix is required")
	}
	if c.BinaryName == "" {
		return fmt.Errorf("binary_name is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// ResolvedModuleDir returns ModuleDir or its default under the plugin
func (c *Config) ResolvedModuleDir() string {
	if c.ModuleDir != "" {
		return c.ModuleDir
	}
	return filepath.Join(c.PluginDir, "Source", c.ModuleName)
}

// ManifestPath is the packages.config the installer reads
func (c *Config) ManifestPath() string {
	return filepath.Join(c.ResolvedModuleDir(), nuget.ManifestName)
}
