// pkg/nuget/feed.go
package nuget

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/microsoft/WorldLockingTools-Unreal/pkg/fsutil"
	"github.com/microsoft/WorldLockingTools-Unreal/pkg/logging"
)

// FeedInstaller installs packages straight from a NuGet v2 feed without the
// command-line client. It lays packages out the way the client does, as
// <outDir>/<id>.<version>/, so both installers are interchangeable.
type FeedInstaller struct {
	FeedURL string
	Client  *Client
	Logger  hclog.Logger
}

// NewFeedInstaller creates an installer for the feed at feedURL
func NewFeedInstaller(feedURL string, client *Client, logger hclog.Logger) *FeedInstaller {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if client == nil {
		client = NewClient()
	}
	return &FeedInstaller{
		FeedURL: strings.TrimSuffix(feedURL, "/"),
		Client:  client,
		Logger:  logging.OrNull(logger),
	}
}

// Name returns the installer name
func (f *FeedInstaller) Name() string {
	return "feed"
}

// Install downloads and extracts every package in the manifest. Packages
// whose folder already exists are skipped. The first failure aborts the
// install; folders extracted before it are left in place.
func (f *FeedInstaller) Install(ctx context.Context, manifestPath, outDir string) error {
	logger := logging.OrNull(f.Logger)

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInstallFailed, err)
	}

	for _, pkg := range manifest.Packages {
		if folder, ok := findFolder(outDir, pkg.FolderName()); ok {
			logger.Debug("package already installed", "package", pkg.ID, "version", pkg.Version, "folder", folder)
			continue
		}

		logger.Info("installing package", "package", pkg.ID, "version", pkg.Version)
		if err := f.installPackage(ctx, pkg, outDir); err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrInstallFailed, pkg.ID, pkg.Version, err)
		}
	}
	return nil
}

func (f *FeedInstaller) installPackage(ctx context.Context, pkg ManifestEntry, outDir string) error {
	logger := logging.OrNull(f.Logger)

	url := fmt.Sprintf("%s/package/%s/%s", f.FeedURL, pkg.ID, pkg.Version)
	nupkgPath := filepath.Join(outDir, strings.ToLower(pkg.FolderName())+".nupkg")
	if err := downloadFile(ctx, f.Client, url, nupkgPath, "", logger); err != nil {
		return fmt.Errorf("downloading package: %w", err)
	}
	defer os.Remove(nupkgPath)

	// Extract next to the final folder and rename, so a half-extracted
	// package is never mistaken for an installed one.
	staging := filepath.Join(outDir, "."+pkg.FolderName()+".partial")
	os.RemoveAll(staging)
	if err := extractNupkg(nupkgPath, staging, logger); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("extracting package: %w", err)
	}

	// Ids are case-insensitive; the folder takes the casing the package
	// declares so it matches what List reports.
	folder := pkg.FolderName()
	if spec, err := readNuspec(staging); err == nil {
		folder = FolderName(spec.Metadata.ID + " " + spec.Metadata.Version)
	} else {
		logger.Warn("package has no readable nuspec, using manifest id", "package", pkg.ID, "error", err)
	}

	if err := os.Rename(staging, filepath.Join(outDir, folder)); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("moving package into place: %w", err)
	}
	return nil
}

// List prints "<id> <version>" for every package folder in outDir that
// contains a .nuspec file, sorted by id.
func (f *FeedInstaller) List(ctx context.Context, outDir string) (string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("listing packages: %w", err)
	}

	var lines []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		spec, err := readNuspec(filepath.Join(outDir, entry.Name()))
		if err != nil {
			logging.OrNull(f.Logger).Debug("skipping folder", "folder", entry.Name(), "error", err)
			continue
		}
		lines = append(lines, spec.Metadata.ID+" "+spec.Metadata.Version)
	}
	sort.Strings(lines)

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// nuspec is the subset of a .nuspec document needed for listing
type nuspec struct {
	Metadata struct {
		ID      string `xml:"id"`
		Version string `xml:"version"`
	} `xml:"metadata"`
}

func readNuspec(pkgDir string) (*nuspec, error) {
	matches, err := filepath.Glob(filepath.Join(pkgDir, "*.nuspec"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .nuspec in %s", pkgDir)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}

	var spec nuspec
	if err := xml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", matches[0], err)
	}
	if spec.Metadata.ID == "" || spec.Metadata.Version == "" {
		return nil, fmt.Errorf("%s has no id or version", matches[0])
	}
	return &spec, nil
}

// extractNupkg extracts a .nupkg file (which is a ZIP archive)
func extractNupkg(nupkgPath, extractPath string, logger hclog.Logger) error {
	logger.Debug("extracting package", "archive", nupkgPath, "destination", extractPath)

	if err := fsutil.EnsureDir(extractPath); err != nil {
		return err
	}

	reader, err := zip.OpenReader(nupkgPath)
	if err != nil {
		return fmt.Errorf("opening nupkg: %w", err)
	}
	defer reader.Close()

	root := filepath.Clean(extractPath) + string(os.PathSeparator)
	for _, file := range reader.File {
		path := filepath.Join(extractPath, file.Name)

		// Check for ZipSlip vulnerability
		if !strings.HasPrefix(path, root) {
			return fmt.Errorf("invalid file path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := fsutil.EnsureDir(path); err != nil {
				return err
			}
			continue
		}

		if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
			return err
		}

		if err := extractFile(file, path); err != nil {
			return fmt.Errorf("extracting file %s: %w", file.Name, err)
		}
	}

	return nil
}

// extractFile extracts a single file from the ZIP
func extractFile(file *zip.File, destPath string) error {
	srcFile, err := file.Open()
	if err != nil {
		return err
	}
	defer srcFile.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// findFolder looks for a package folder in dir ignoring case
func findFolder(dir, name string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return entry.Name(), true
		}
	}
	return "", false
}
