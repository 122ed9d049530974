// pkg/platform/resolver.go
package platform

import (
	"fmt"
	"strings"
)

// Installer names accepted in configuration
const (
	InstallerAuto = "auto"
	InstallerExe  = "exe"
	InstallerFeed = "feed"
)

// Installers lists the valid installer names
var Installers = []string{InstallerAuto, InstallerExe, InstallerFeed}

// Choice is a resolved installer and, for the client executable, the
// command prepended to every invocation
type Choice struct {
	Installer string
	Launcher  []string
}

// ResolveInstaller resolves which installer to use on host
func ResolveInstaller(host *Host, installer string, launcher []string) (Choice, error) {
	if !contains(Installers, installer) {
		return Choice{}, fmt.Errorf("unknown installer %q (want %s)", installer, strings.Join(Installers, ", "))
	}
	if installer == InstallerFeed {
		return Choice{Installer: InstallerFeed}, nil
	}

	// Priority:
	// 1. Host runs .exe directly, or the user configured a launcher
	// 2. Host preferred runtime
	// 3. Feed installer, unless the client was asked for explicitly
	switch {
	case host.RunsExe() || len(launcher) > 0:
		return Choice{Installer: InstallerExe, Launcher: launcher}, nil
	case host.Preferred != "":
		return Choice{Installer: InstallerExe, Launcher: []string{host.Preferred}}, nil
	case installer == InstallerExe:
		return Choice{}, fmt.Errorf("no runtime to launch nuget.exe on %s (tried %s); install one or use the feed installer",
			host.OS, strings.Join(launchers, ", "))
	}
	return Choice{Installer: InstallerFeed}, nil
}
