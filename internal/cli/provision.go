// internal/cli/provision.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	wlt "github.com/microsoft/WorldLockingTools-Unreal"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/target"
)

var (
	provisionPlatform string
	provisionArch     string
	provisionType     string
	provisionTarget   string
	provisionEditor   bool
	provisionStrict   bool
	provisionFormat   string
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Configure the module for a build target",
	Long: `Configure the plugin module for one platform, architecture and target type.

Targets that use the Frozen World engine get the engine package installed
and its native binary copied into Binaries/ThirdParty. The resulting module
rules are printed on stdout.

Examples:
  wltbuild provision --platform Win64 --arch x64
  wltbuild provision --platform HoloLens --arch ARM64 --type Game
  wltbuild provision --target WLT_ProjectEditor --platform Win64 --arch x64`,
	Args: cobra.NoArgs,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&provisionPlatform, "platform", string(target.Win64), "target platform")
	provisionCmd.Flags().StringVar(&provisionArch, "arch", string(target.X64), "target architecture")
	provisionCmd.Flags().StringVar(&provisionType, "type", string(target.Game), "target type")
	provisionCmd.Flags().StringVar(&provisionTarget, "target", "", "take the target type from a target descriptor")
	provisionCmd.Flags().BoolVar(&provisionEditor, "editor", false, "target builds the editor")
	provisionCmd.Flags().BoolVar(&provisionStrict, "strict", false, "fail unless the native binary is in place")
	provisionCmd.Flags().StringVar(&provisionFormat, "format", "yaml", "output format (yaml, json)")
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	builder, err := wlt.NewBuilder(config, logger)
	if err != nil {
		return err
	}

	typ, editor := provisionType, provisionEditor
	if provisionTarget != "" {
		rules, err := builder.Target(provisionTarget)
		if err != nil {
			return err
		}
		typ = string(rules.Type)
		editor = editor || rules.IsEditor()
	}

	desc, err := target.ParseDescriptor(provisionPlatform, provisionArch, typ, editor)
	if err != nil {
		return err
	}

	rules, res, err := builder.Configure(ctx, desc)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), provisionFormat, report{Rules: rules, Result: res}); err != nil {
		return err
	}

	if provisionStrict {
		return wlt.RequireBinary(res)
	}
	return nil
}

type report struct {
	Rules  *wlt.ModuleRules `yaml:"module" json:"module"`
	Result *wlt.Result      `yaml:"provision" json:"provision"`
}

func writeReport(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
