// pkg/nuget/installer.go
package nuget

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/runner"
)

// Installer installs the packages of a manifest into a directory and lists
// what is installed there
type Installer interface {
	// Name returns the installer name (e.g., "exe", "feed")
	Name() string

	// Install installs every package listed in manifestPath into outDir
	Install(ctx context.Context, manifestPath, outDir string) error

	// List returns the raw listing of packages installed in outDir, one
	// "<id> <version>" entry per line
	List(ctx context.Context, outDir string) (string, error)
}

// ExeInstaller drives the NuGet command-line client
type ExeInstaller struct {
	// Executable is the path to nuget.exe
	Executable string

	// Launcher is prepended to every invocation, e.g. ["mono"] on hosts
	// that cannot run .exe files directly
	Launcher []string

	Runner runner.Interface
	Logger hclog.Logger
}

// NewExeInstaller creates an installer for the client at executable
func NewExeInstaller(executable string, launcher []string, logger hclog.Logger) *ExeInstaller {
	logger = logging.OrNull(logger)
	return &ExeInstaller{
		Executable: executable,
		Launcher:   launcher,
		Runner:     &runner.Runner{Logger: logger},
		Logger:     logger,
	}
}

// Name returns the installer name
func (i *ExeInstaller) Name() string {
	return "exe"
}

// Install runs `install <manifest> -OutputDirectory <outDir>`. The client's
// output is passed through to the log. Any non-zero exit is fatal.
func (i *ExeInstaller) Install(ctx context.Context, manifestPath, outDir string) error {
	logger := logging.OrNull(i.Logger)
	out := logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true})

	code, err := i.Runner.Run(ctx, i.command("install", manifestPath, "-OutputDirectory", outDir), out, out)
	if err != nil {
		return fmt.Errorf("%w: running %s: %v", ErrInstallFailed, i.Executable, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s exited with code %d, see log for details", ErrInstallFailed, i.Executable, code)
	}
	return nil
}

// List runs `list -Source <outDir>` and returns its standard output. The
// exit code is not inspected: whatever was printed is the listing.
func (i *ExeInstaller) List(ctx context.Context, outDir string) (string, error) {
	logger := logging.OrNull(i.Logger)

	var stdout bytes.Buffer
	stderr := logger.StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Warn})
	code, err := i.Runner.Run(ctx, i.command("list", "-Source", outDir), &stdout, stderr)
	if err != nil {
		return "", fmt.Errorf("listing packages: %w", err)
	}
	if code != 0 {
		logger.Warn("list exited with non-zero code", "code", code)
	}
	return stdout.String(), nil
}

func (i *ExeInstaller) command(args ...string) []string {
	cmd := make([]string, 0, len(i.Launcher)+1+len(args))
	cmd = append(cmd, i.Launcher...)
	cmd = append(cmd, i.Executable)
	return append(cmd, args...)
}
