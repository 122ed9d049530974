// pkg/nuget/manifest.go
package nuget

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Manifest is a parsed packages.config file
type Manifest struct {
	XMLName  xml.Name        `xml:"packages"`
	Packages []ManifestEntry `xml:"package"`
}

// ManifestEntry is one <package> element of packages.config
type ManifestEntry struct {
	ID              string `xml:"id,attr"`
	Version         string `xml:"version,attr"`
	TargetFramework string `xml:"targetFramework,attr"`
}

// FolderName is the directory the package is installed into
func (e ManifestEntry) FolderName() string {
	return e.ID + "." + e.Version
}

// ParseManifest parses a packages.config document
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidManifest, err)
	}

	for i, pkg := range m.Packages {
		pkg.ID = strings.TrimSpace(pkg.ID)
		pkg.Version = strings.TrimSpace(pkg.Version)
		if pkg.ID == "" || pkg.Version == "" {
			return nil, fmt.Errorf("%w: package %d needs both id and version", ErrInvalidManifest, i)
		}
		m.Packages[i] = pkg
	}

	return &m, nil
}

// LoadManifest reads and parses the packages.config file at path
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f)
}
