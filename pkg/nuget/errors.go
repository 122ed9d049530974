// pkg/nuget/errors.go
package nuget

import "errors"

var (
	// ErrInstallFailed indicates the package install step did not succeed
	ErrInstallFailed = errors.New("failed to get nuget packages")

	// ErrDownloadFailed indicates the command-line client could not be fetched
	ErrDownloadFailed = errors.New("failed to download nuget client")

	// ErrHashMismatch indicates a downloaded file failed checksum verification
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrInvalidManifest indicates packages.config could not be understood
	ErrInvalidManifest = errors.New("invalid package manifest")
)
