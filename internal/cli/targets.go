// internal/cli/targets.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wlt "github.com/microsoft/WorldLockingTools-Unreal"
)

var targetsCmd = &cobra.Command{
	Use:   "targets [name]",
	Short: "Show target descriptors",
	Long:  `List the project's build targets, or show one target in detail.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTargets,
}

func runTargets(cmd *cobra.Command, args []string) error {
	builder, err := wlt.NewBuilder(config, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		rules, err := builder.Target(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Target: %s\n", rules.Name)
		fmt.Fprintf(out, "Type: %s\n", rules.Type)
		fmt.Fprintf(out, "Build settings: %s\n", rules.DefaultBuildSettings)
		fmt.Fprintf(out, "Modules: %s\n", strings.Join(rules.ExtraModuleNames, ", "))
		return nil
	}

	all, err := builder.Targets()
	if err != nil {
		return err
	}
	for _, rules := range all {
		fmt.Fprintf(out, "%-24s %-8s %s\n", rules.Name, rules.Type, strings.Join(rules.ExtraModuleNames, ","))
	}
	return nil
}
