// pkg/nuget/download.go
package nuget

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/fsutil"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
)

// EnsureExecutable makes sure the client executable exists at dest and
// returns its path. An existing file is trusted as-is: it is never
// re-downloaded or checked, so a stale or damaged client is only noticed
// when it fails to run. When expectedSHA512 (base64) is set, a fresh
// download is verified against it.
func EnsureExecutable(ctx context.Context, client *Client, url, dest, expectedSHA512 string, logger hclog.Logger) (string, error) {
	logger = logging.OrNull(logger)

	if fsutil.Exists(dest) {
		logger.Debug("client already present", "path", dest)
		return dest, nil
	}

	logger.Info("downloading nuget client", "url", url, "path", dest)
	if err := downloadFile(ctx, client, url, dest, expectedSHA512, logger); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	return dest, nil
}

// downloadFile writes url to dest through a temporary file in the same
// directory, so an interrupted download never leaves a partial dest behind.
func downloadFile(ctx context.Context, client *Client, url, dest, expectedSHA512 string, logger hclog.Logger) error {
	if err := fsutil.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := client.Download(ctx, url, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	logger.Debug("downloaded", "url", url, "size", humanize.Bytes(uint64(written)))

	if expectedSHA512 != "" {
		if err := verifyFileHash(tmp.Name(), expectedSHA512); err != nil {
			return err
		}
		logger.Debug("checksum verified", "path", dest)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("moving download into place: %w", err)
	}
	return nil
}

// verifyFileHash compares the base64 SHA-512 of a file, the encoding NuGet
// feeds publish, against expected.
func verifyFileHash(filePath, expected string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := sha512.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("computing hash: %w", err)
	}

	actual := base64.StdEncoding.EncodeToString(hasher.Sum(nil))
	if actual != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, actual)
	}
	return nil
}
