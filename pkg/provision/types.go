// pkg/provision/types.go
package provision

import (
	"fmt"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/fsutil"
)

const (
	// FrozenWorldDefinition tells module code the native engine is available
	FrozenWorldDefinition = "USING_FROZEN_WORLD"

	// BinarySubfolderDefinition exposes the binaries subfolder to module code
	BinarySubfolderDefinition = "THIRDPARTY_BINARY_SUBFOLDER"
)

// systemLibraries are required by the engine's WinRT interop
var systemLibraries = []string{"shlwapi.lib", "runtimeobject.lib"}

// Outcome is the result of one provisioning pass
type Outcome int

const (
	// Skipped means the target does not use the native engine
	Skipped Outcome = iota
	// Found means the package was installed and located
	Found
	// NotFound means install succeeded but no installed package matched
	NotFound
	// InstallFailed means the package install step failed
	InstallFailed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	case InstallFailed:
		return "install-failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome by name in YAML and JSON output
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Options configures a Provisioner
type Options struct {
	PluginDir  string
	ModuleName string

	// Manifest is the path to packages.config
	Manifest string

	// PackagePrefix selects the installed package holding the binary
	PackagePrefix string

	// BinaryName is the file copied out of the package
	BinaryName string

	ClientURL      string
	ClientSHA512   string
	ClientLauncher []string
}

// Result reports what a provisioning pass did
type Result struct {
	Outcome Outcome `yaml:"outcome" json:"outcome"`

	// Package is the matching listing entry, e.g. "Some.Package 1.2.3"
	Package string `yaml:"package,omitempty" json:"package,omitempty"`

	ScratchDir  string `yaml:"scratch_dir,omitempty" json:"scratch_dir,omitempty"`
	BinariesDir string `yaml:"binaries_dir,omitempty" json:"binaries_dir,omitempty"`

	// Source is the binary inside the installed package
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	// Binary is where the binary was copied to
	Binary string `yaml:"binary,omitempty" json:"binary,omitempty"`

	Copy fsutil.CopyOutcome `yaml:"-" json:"-"`

	// CopyStatus is Copy spelled out, set once a copy was attempted
	CopyStatus string `yaml:"copy,omitempty" json:"copy,omitempty"`
}

// HasBinary reports whether a usable binary is in the binaries directory
func (r *Result) HasBinary() bool {
	return r.Outcome == Found && r.Copy.Usable()
}
