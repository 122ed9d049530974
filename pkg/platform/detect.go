// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Host describes the machine running the build
type Host struct {
	OS        string   // linux, darwin, windows
	Arch      string   // amd64, arm64, 386, arm
	Available []string // Runtimes able to launch nuget.exe
	Preferred string   // Preferred runtime
}

// launchers are tried in order on hosts that cannot run .exe files
var launchers = []string{"mono", "wine"}

// Detect detects the current host and the runtimes that can launch the
// package-manager client
func Detect() *Host {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) *Host {
	h := &Host{
		OS:        goos,
		Arch:      goarch,
		Available: []string{},
	}
	if h.RunsExe() {
		return h
	}

	for _, l := range launchers {
		if commandExists(l) {
			h.Available = append(h.Available, l)
		}
	}
	if len(h.Available) > 0 {
		h.Preferred = h.Available[0]
	}
	return h
}

// RunsExe reports whether the host runs .exe files directly
func (h *Host) RunsExe() bool {
	return h.OS == "windows"
}

// String returns a string representation of the host
func (h *Host) String() string {
	if h.RunsExe() {
		return fmt.Sprintf("%s/%s", h.OS, h.Arch)
	}
	return fmt.Sprintf("%s/%s (available: %v, preferred: %s)",
		h.OS, h.Arch, h.Available, h.Preferred)
}
