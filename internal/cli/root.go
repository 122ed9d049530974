// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/core"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
)

const version = "0.1.0"

var (
	cfgFile   string
	pluginDir string
	installer string
	logLevel  string
	debug     bool
	config    *core.Config
	logger    hclog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wltbuild",
	Short: "World Locking Tools build configuration",
	Long: `wltbuild - World Locking Tools build configuration

Configures the World Locking Tools plugin module for a build target:
fetches the Frozen World engine NuGet package when the target needs it,
copies the native binary next to the build output and prints the
resulting module rules.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute executes the root command. An interrupt cancels any download or
// client process in flight.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wltbuild/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&pluginDir, "plugin-dir", "", "plugin root directory")
	rootCmd.PersistentFlags().StringVar(&installer, "installer", "", "package installer to use (auto, exe, feed)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Override config with flags
	if pluginDir != "" {
		config.PluginDir = pluginDir
	}
	if installer != "" {
		config.Installer = installer
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if debug {
		config.Debug = true
	}
	if config.Debug {
		config.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger = logging.NewLogger("wltbuild", config.LogLevel, os.Stderr)
	return nil
}
