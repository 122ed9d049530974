// pkg/fsutil/fsutil.go
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
)

// CopyOutcome describes what SafeCopy left at the destination
type CopyOutcome int

const (
	// Copied means the destination now holds a fresh copy of the source
	Copied CopyOutcome = iota
	// SourceMissing means nothing was copied because the source is absent
	SourceMissing
	// ReusedStale means the copy failed but an older destination file exists
	ReusedStale
	// CopyFailed means the copy failed and there is no destination file
	CopyFailed
)

func (o CopyOutcome) String() string {
	switch o {
	case Copied:
		return "copied"
	case SourceMissing:
		return "source-missing"
	case ReusedStale:
		return "reused-stale"
	case CopyFailed:
		return "copy-failed"
	default:
		return fmt.Sprintf("CopyOutcome(%d)", int(o))
	}
}

// Usable reports whether the destination file is present after the copy
func (o CopyOutcome) Usable() bool {
	return o == Copied || o == ReusedStale
}

// EnsureDir creates path and any missing parents. It succeeds whether or not
// the directory already exists.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists and is a regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies src to dest, replacing any existing contents of dest
func CopyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Copier copies files, tolerating a destination that is locked by a running
// process as long as an older copy is already in place.
type Copier struct {
	Logger hclog.Logger

	// CopyFunc performs the copy; it defaults to CopyFile
	CopyFunc func(src, dest string) error
}

// NewCopier creates a Copier that logs to logger
func NewCopier(logger hclog.Logger) *Copier {
	return &Copier{
		Logger:   logging.OrNull(logger),
		CopyFunc: CopyFile,
	}
}

// SafeCopy copies src over dest. Failures are logged, never returned: a
// missing source or a failed copy leave the caller to decide whether the
// resulting outcome is acceptable.
func (c *Copier) SafeCopy(src, dest string) CopyOutcome {
	logger := logging.OrNull(c.Logger)
	copyFn := c.CopyFunc
	if copyFn == nil {
		copyFn = CopyFile
	}

	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		logger.Error("can't find file for copying", "source", src)
		return SourceMissing
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		logger.Warn("failed to create destination directory", "dir", filepath.Dir(dest), "error", err)
	}

	err := copyFn(src, dest)
	if err == nil {
		logger.Debug("copied", "source", src, "destination", dest)
		return Copied
	}

	logger.Warn("failed to copy", "source", src, "destination", dest, "error", err)
	if !Exists(dest) {
		logger.Error("destination file does not exist", "destination", dest)
		return CopyFailed
	}

	logger.Warn("destination file already existed and is probably in use, the old file will be used for the runtime dependency",
		"destination", dest)
	return ReusedStale
}
