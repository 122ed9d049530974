// errors.go
package wlt

import (
	"errors"
	"fmt"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/nuget"
)

var (
	// ErrInstallFailed indicates the package install step failed. It is the
	// only failure that aborts a configuration pass.
	ErrInstallFailed = nuget.ErrInstallFailed

	// ErrDownloadFailed indicates the package-manager client could not be fetched
	ErrDownloadFailed = nuget.ErrDownloadFailed

	// ErrHashMismatch indicates a hash verification failure
	ErrHashMismatch = nuget.ErrHashMismatch

	// ErrPackageNotFound indicates no installed package matched the prefix
	ErrPackageNotFound = errors.New("package not found")

	// ErrPlatformNotSupported indicates the target does not use the native engine
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
