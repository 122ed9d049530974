// pkg/provision/provisioner.go
package provision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/fsutil"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/nuget"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/runner"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/target"
)

// Provisioner fetches the native engine package and places its binary
// where the module expects it. It keeps no state between passes; the only
// thing that persists is what it writes to disk.
type Provisioner struct {
	opts   Options
	logger hclog.Logger

	// Installer is used as-is when set. Otherwise the command-line client is
	// downloaded on demand and driven through Runner.
	Installer nuget.Installer
	Runner    runner.Interface

	client *nuget.Client
	copier *fsutil.Copier
}

// New creates a Provisioner
func New(opts Options, client *nuget.Client, logger hclog.Logger) *Provisioner {
	logger = logging.OrNull(logger)
	if client == nil {
		client = nuget.NewClient()
	}
	if opts.ClientURL == "" {
		opts.ClientURL = nuget.DefaultClientURL
	}

	return &Provisioner{
		opts:   opts,
		logger: logger,
		client: client,
		copier: fsutil.NewCopier(logger),
	}
}

// ScratchDir is where the client and installed packages live
func (p *Provisioner) ScratchDir() string {
	return filepath.Join(p.opts.PluginDir, "Intermediate", "Nuget", p.opts.ModuleName)
}

// Provision configures rules for desc. Targets that don't use the native
// engine are left untouched and reported as Skipped.
//
// Only failures to fetch the client, install packages or list them are
// returned as errors, always with a Result. A missing package, a
// missing binary or a failed copy are logged and reported in the Result so
// the caller can carry on with whatever binary is already in place.
func (p *Provisioner) Provision(ctx context.Context, desc target.Descriptor, rules *target.ModuleRules) (*Result, error) {
	logger := p.logger.With("target", desc.String())

	if !desc.NeedsFrozenWorld() {
		logger.Debug("native engine not used on this target")
		return &Result{Outcome: Skipped}, nil
	}

	rules.AddDefinition(FrozenWorldDefinition)
	rules.EnableExceptions = true
	rules.UseUnity = false
	rules.CppStandard = target.Cpp17
	rules.AddSystemLibraries(systemLibraries...)

	res := &Result{
		ScratchDir:  p.ScratchDir(),
		BinariesDir: filepath.Join(p.opts.PluginDir, desc.BinariesSubfolder()),
	}
	if err := fsutil.EnsureDir(res.ScratchDir); err != nil {
		return nil, err
	}
	rules.AddStringDefinition(BinarySubfolderDefinition, desc.BinariesSubfolder())
	if err := fsutil.EnsureDir(res.BinariesDir); err != nil {
		return nil, err
	}

	rules.AddExternalDependency(p.opts.Manifest)

	installer, err := p.installer(ctx, res.ScratchDir)
	if err != nil {
		res.Outcome = InstallFailed
		return res, err
	}

	logger.Info("installing packages", "manifest", p.opts.Manifest, "installer", installer.Name())
	if err := installer.Install(ctx, p.opts.Manifest, res.ScratchDir); err != nil {
		res.Outcome = InstallFailed
		if !errors.Is(err, nuget.ErrInstallFailed) {
			err = fmt.Errorf("%w: %v", nuget.ErrInstallFailed, err)
		}
		return res, err
	}

	listing, err := installer.List(ctx, res.ScratchDir)
	if err != nil {
		res.Outcome = InstallFailed
		return res, err
	}

	entry, ok := nuget.FindPackage(nuget.ParseListing(listing), p.opts.PackagePrefix)
	if !ok {
		logger.Error("failed to find the package, check the packages.config file",
			"prefix", p.opts.PackagePrefix, "manifest", p.opts.Manifest)
		res.Outcome = NotFound
		return res, nil
	}
	res.Outcome = Found
	res.Package = entry

	res.Source = p.binaryPath(desc, res.ScratchDir, entry)
	res.Binary = filepath.Join(res.BinariesDir, p.opts.BinaryName)
	res.Copy = p.copier.SafeCopy(res.Source, res.Binary)
	res.CopyStatus = res.Copy.String()

	if res.Copy.Usable() {
		rules.AddRuntimeDependency(res.Binary)
	}

	logger.Info("provisioned", "package", entry, "binary", res.Binary, "copy", res.Copy.String())
	return res, nil
}

// ListInstalled returns the listing of packages in the scratch directory
func (p *Provisioner) ListInstalled(ctx context.Context) ([]string, error) {
	installer, err := p.installer(ctx, p.ScratchDir())
	if err != nil {
		return nil, err
	}

	listing, err := installer.List(ctx, p.ScratchDir())
	if err != nil {
		return nil, err
	}
	return nuget.ParseListing(listing), nil
}

// binaryPath locates the prebuilt binary inside the installed package
func (p *Provisioner) binaryPath(desc target.Descriptor, scratchDir, entry string) string {
	variant := "Windows-" + string(desc.Architecture)
	if desc.IsUWP() {
		variant = "Windows-UWP-" + string(desc.Architecture)
	}
	return filepath.Join(scratchDir, nuget.FolderName(entry), "lib", "unity", variant, p.opts.BinaryName)
}

func (p *Provisioner) installer(ctx context.Context, scratchDir string) (nuget.Installer, error) {
	if p.Installer != nil {
		return p.Installer, nil
	}

	exe, err := nuget.EnsureExecutable(ctx, p.client, p.opts.ClientURL,
		filepath.Join(scratchDir, nuget.ClientExe), p.opts.ClientSHA512, p.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nuget.ErrDownloadFailed, err)
	}

	inst := nuget.NewExeInstaller(exe, p.opts.ClientLauncher, p.logger)
	if p.Runner != nil {
		inst.Runner = p.Runner
	}
	return inst, nil
}
