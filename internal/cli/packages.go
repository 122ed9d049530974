// internal/cli/packages.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wlt "github.com/microsoft/WorldLockingTools-Unreal"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List installed packages",
	Long:  `List the NuGet packages installed in the plugin's intermediate directory.`,
	Args:  cobra.NoArgs,
	RunE:  runPackages,
}

func runPackages(cmd *cobra.Command, args []string) error {
	builder, err := wlt.NewBuilder(config, logger)
	if err != nil {
		return err
	}

	entries, err := builder.InstalledPackages(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installer: %s\n\n", builder.Installer())
	if len(entries) == 0 {
		fmt.Fprintln(out, "No packages installed")
		return nil
	}
	for _, entry := range entries {
		marker := " "
		if strings.HasPrefix(entry, config.PackagePrefix) {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, entry)
	}
	fmt.Fprintf(out, "\n* = provides %s\n", config.BinaryName)
	return nil
}
