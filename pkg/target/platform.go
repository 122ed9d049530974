// pkg/target/platform.go
package target

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Platform names the platform family a target is built for
type Platform string

const (
	// Win64 is the desktop Windows platform
	Win64 Platform = "Win64"
	// HoloLens is the UWP platform used by HoloLens devices
	HoloLens Platform = "HoloLens"
	Linux    Platform = "Linux"
	Mac      Platform = "Mac"
	Android  Platform = "Android"
	IOS      Platform = "IOS"
)

// Architecture is the Windows CPU architecture of a target
type Architecture string

const (
	X64   Architecture = "x64"
	ARM64 Architecture = "ARM64"
	ARM32 Architecture = "ARM32"
	X86   Architecture = "x86"
)

// Type is the kind of target being built
type Type string

const (
	Game    Type = "Game"
	Editor  Type = "Editor"
	Client  Type = "Client"
	Server  Type = "Server"
	Program Type = "Program"
)

var platforms = []Platform{Win64, HoloLens, Linux, Mac, Android, IOS}

var architectures = []Architecture{X64, ARM64, ARM32, X86}

var types = []Type{Game, Editor, Client, Server, Program}

// Descriptor identifies what a module is being configured for. It is
// supplied once per configuration pass and never modified.
type Descriptor struct {
	Platform     Platform
	Architecture Architecture
	Type         Type
	// BuildEditor is set when the target links editor modules
	BuildEditor bool
}

// NeedsFrozenWorld reports whether the target requires the native Frozen
// World engine. The vendor package ships no x64 UWP binaries, so HoloLens
// x64 is excluded.
func (d Descriptor) NeedsFrozenWorld() bool {
	switch d.Platform {
	case Win64:
		return true
	case HoloLens:
		return d.Architecture != X64
	default:
		return false
	}
}

// IsUWP reports whether binaries for the target come from the UWP layout
func (d Descriptor) IsUWP() bool {
	return d.Platform != Win64
}

// BinariesSubfolder returns the binaries path, relative to the plugin
// directory, that third-party binaries are copied into.
func (d Descriptor) BinariesSubfolder() string {
	return filepath.Join("Binaries", "ThirdParty", string(d.Type), string(d.Platform), string(d.Architecture))
}

// Validate checks that every field names a known value
func (d Descriptor) Validate() error {
	if !containsFold(platforms, d.Platform) {
		return fmt.Errorf("unknown platform: %q", d.Platform)
	}
	if !containsFold(architectures, d.Architecture) {
		return fmt.Errorf("unknown architecture: %q", d.Architecture)
	}
	if !containsFold(types, d.Type) {
		return fmt.Errorf("unknown target type: %q", d.Type)
	}
	return nil
}

// String returns a string representation of the descriptor
func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s/%s", d.Type, d.Platform, d.Architecture)
}

// ParseDescriptor builds a descriptor from user input, normalizing the case
// of each field to its canonical spelling.
func ParseDescriptor(platform, arch, typ string, buildEditor bool) (Descriptor, error) {
	d := Descriptor{
		Platform:     canonical(platforms, Platform(platform)),
		Architecture: canonical(architectures, Architecture(arch)),
		Type:         canonical(types, Type(typ)),
		BuildEditor:  buildEditor,
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func canonical[T ~string](known []T, v T) T {
	for _, k := range known {
		if strings.EqualFold(string(k), string(v)) {
			return k
		}
	}
	return v
}

func containsFold[T ~string](known []T, v T) bool {
	for _, k := range known {
		if strings.EqualFold(string(k), string(v)) {
			return true
		}
	}
	return false
}
