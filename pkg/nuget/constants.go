// pkg/nuget/constants.go
package nuget

const (
	// DefaultClientURL is where the command-line client is downloaded from.
	// It is not pinned to a version.
	DefaultClientURL = "https://dist.nuget.org/win-x86-commandline/latest/nuget.exe"

	// DefaultFeedURL is the NuGet v2 feed used by the feed installer
	DefaultFeedURL = "https://www.nuget.org/api/v2"

	// ClientExe is the file name of the command-line client
	ClientExe = "nuget.exe"

	// ManifestName is the file name of the package manifest
	ManifestName = "packages.config"
)
