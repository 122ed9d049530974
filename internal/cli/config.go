// internal/cli/config.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/core"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after the config file, WLT_* environment
variables and flags have been applied. With --write, save it to the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configWrite, "write", false, "save the effective configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configWrite {
		path := cfgFile
		if path == "" {
			path = core.DefaultConfigPath()
		}
		if err := core.SaveConfig(config, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}
	return writeReport(cmd.OutOrStdout(), "yaml", config)
}
