// wlt.go
package wlt

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/core"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/nuget"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/platform"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/provision"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/target"
)

// Re-export types for convenience
type (
	Config      = core.Config
	Descriptor  = target.Descriptor
	ModuleRules = target.ModuleRules
	TargetRules = target.Rules
	Result      = provision.Result
	Outcome     = provision.Outcome
)

// Re-export outcome constants
const (
	Skipped       = provision.Skipped
	Found         = provision.Found
	NotFound      = provision.NotFound
	InstallFailed = provision.InstallFailed
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Builder configures the plugin module for build targets
type Builder struct {
	config      *core.Config
	provisioner *provision.Provisioner
	installer   string
	logger      hclog.Logger
}

// NewBuilder creates a Builder for the plugin described by config
func NewBuilder(config *core.Config, logger hclog.Logger) (*Builder, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger = logging.OrNull(logger)

	host := platform.Detect()
	choice, err := platform.ResolveInstaller(host, config.Installer, config.ClientLauncher)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved installer", "host", host.String(), "installer", choice.Installer, "launcher", choice.Launcher)

	client := nuget.NewClientWithTimeout(config.Timeout)
	p := provision.New(provision.Options{
		PluginDir:      config.PluginDir,
		ModuleName:     config.ModuleName,
		Manifest:       config.ManifestPath(),
		PackagePrefix:  config.PackagePrefix,
		BinaryName:     config.BinaryName,
		ClientURL:      config.ClientURL,
		ClientSHA512:   config.ClientSHA512,
		ClientLauncher: choice.Launcher,
	}, client, logger.Named("provision"))

	if choice.Installer == platform.InstallerFeed {
		p.Installer = nuget.NewFeedInstaller(config.FeedURL, client, logger.Named("feed"))
	}

	return &Builder{
		config:      config,
		provisioner: p,
		installer:   choice.Installer,
		logger:      logger,
	}, nil
}

// Configure builds the module rules for desc, provisioning the native
// engine when the target needs it
func (b *Builder) Configure(ctx context.Context, desc Descriptor) (*ModuleRules, *Result, error) {
	if err := desc.Validate(); err != nil {
		return nil, nil, &Error{Op: "configure", Err: err}
	}

	rules := target.NewModuleRules(b.config.ModuleName, desc)
	res, err := b.provisioner.Provision(ctx, desc, rules)
	if err != nil {
		return rules, res, &Error{Op: "provision", Package: b.config.PackagePrefix, Err: err}
	}
	return rules, res, nil
}

// InstalledPackages lists the packages in the scratch directory
func (b *Builder) InstalledPackages(ctx context.Context) ([]string, error) {
	entries, err := b.provisioner.ListInstalled(ctx)
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}
	return entries, nil
}

// Targets loads every target descriptor from the targets directory
func (b *Builder) Targets() ([]*TargetRules, error) {
	return target.ListRules(b.config.TargetsDir)
}

// Target loads the named target descriptor
func (b *Builder) Target(name string) (*TargetRules, error) {
	return target.LoadRules(b.config.TargetsDir, name)
}

// Installer returns the name of the resolved installer
func (b *Builder) Installer() string {
	return b.installer
}

// RequireBinary turns every outcome that leaves no usable binary in place
// into an error. Configure itself only fails on install errors; callers
// that would rather stop early than fail at link time use this.
func RequireBinary(res *Result) error {
	if res == nil {
		return &Error{Op: "provision", Err: ErrInstallFailed}
	}

	switch {
	case res.Outcome == Skipped:
		return &Error{Op: "provision", Err: ErrPlatformNotSupported}
	case res.Outcome == NotFound:
		return &Error{Op: "provision", Err: ErrPackageNotFound}
	case res.Outcome == InstallFailed:
		return &Error{Op: "provision", Err: ErrInstallFailed}
	case !res.HasBinary():
		return &Error{Op: "copy", Package: res.Package, Err: fmt.Errorf("%s: %s", res.Copy, res.Binary)}
	}
	return nil
}
