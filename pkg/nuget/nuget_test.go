package nuget

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frozenWorld = "Microsoft.MixedReality.Unity.FrozenWorld.Engine"

func TestFindPackage(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    string
		found   bool
	}{
		{
			name:    "single match",
			listing: "Other.Package 2.0.0\r\n" + frozenWorld + " 1.1.1\r\n",
			want:    frozenWorld + " 1.1.1",
			found:   true,
		},
		{
			name:    "first match wins",
			listing: frozenWorld + " 1.0.0\n" + frozenWorld + " 1.1.1\n",
			want:    frozenWorld + " 1.0.0",
			found:   true,
		},
		{
			name:    "no match",
			listing: "Other.Package 2.0.0\nMicrosoft.MixedReality.Unity 1.0.0\n",
		},
		{
			name:    "empty listing",
			listing: "",
		},
		{
			name:    "prefix must be at line start",
			listing: "Wrapper." + frozenWorld + " 1.0.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindPackage(ParseListing(tt.listing), frozenWorld)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListingSplitsOnBothTerminators(t *testing.T) {
	assert.Equal(t, []string{"a 1", "b 2", "c 3"}, ParseListing("a 1\r\nb 2\rc 3\n"))
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, frozenWorld+".1.1.1", FolderName(frozenWorld+" 1.1.1"))
	assert.Equal(t, "A..b.C-1.0.0-Beta", FolderName("A  b C-1.0.0-Beta"))
	assert.Equal(t, "NoSpaces", FolderName("NoSpaces"))
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(`<?xml version="1.0" encoding="utf-8"?>
<packages>
  <package id="` + frozenWorld + `" version="1.1.1" targetFramework="native" />
  <package id="Other" version=" 2.0.0 " />
</packages>`))
	require.NoError(t, err)
	require.Len(t, m.Packages, 2)
	assert.Equal(t, frozenWorld+".1.1.1", m.Packages[0].FolderName())
	assert.Equal(t, "native", m.Packages[0].TargetFramework)
	assert.Equal(t, "2.0.0", m.Packages[1].Version)

	_, err = ParseManifest(strings.NewReader(`<packages><package id="x" /></packages>`))
	assert.ErrorIs(t, err, ErrInvalidManifest)

	_, err = ParseManifest(strings.NewReader(`not xml`))
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestShippedManifest(t *testing.T) {
	m, err := LoadManifest(filepath.Join("..", "..", "plugin", "Source", "WorldLockingTools", ManifestName))
	require.NoError(t, err)
	require.NotEmpty(t, m.Packages)
	assert.Equal(t, frozenWorld, m.Packages[0].ID)
}

func TestEnsureExecutable(t *testing.T) {
	payload := []byte("MZ fake client")
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "scratch", ClientExe)
	ctx := context.Background()

	got, err := EnsureExecutable(ctx, NewClient(), srv.URL, dest, "", nil)
	require.NoError(t, err)
	assert.Equal(t, dest, got)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = EnsureExecutable(ctx, NewClient(), srv.URL, dest, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "present client must not be downloaded again")
}

func TestEnsureExecutableChecksum(t *testing.T) {
	payload := []byte("MZ fake client")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	sum := sha512.Sum512(payload)
	good := base64.StdEncoding.EncodeToString(sum[:])
	ctx := context.Background()

	dest := filepath.Join(t.TempDir(), ClientExe)
	_, err := EnsureExecutable(ctx, NewClient(), srv.URL, dest, good, nil)
	require.NoError(t, err)

	dest = filepath.Join(t.TempDir(), ClientExe)
	_, err = EnsureExecutable(ctx, NewClient(), srv.URL, dest, "bogus", nil)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.NoFileExists(t, dest)
}

func TestEnsureExecutableHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, ClientExe)
	_, err := EnsureExecutable(context.Background(), NewClient(), srv.URL, dest, "", nil)
	assert.ErrorContains(t, err, "unexpected status 404")
	assert.NoFileExists(t, dest)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary download must be cleaned up")
}

type fakeRunner struct {
	calls  [][]string
	code   int
	err    error
	stdout string
}

func (f *fakeRunner) Run(ctx context.Context, command []string, stdout, stderr io.Writer) (int, error) {
	f.calls = append(f.calls, command)
	if stdout != nil {
		io.WriteString(stdout, f.stdout)
	}
	return f.code, f.err
}

func TestExeInstaller(t *testing.T) {
	ctx := context.Background()

	t.Run("install command line", func(t *testing.T) {
		r := &fakeRunner{}
		inst := NewExeInstaller("/scratch/nuget.exe", []string{"mono"}, nil)
		inst.Runner = r

		require.NoError(t, inst.Install(ctx, "/mod/packages.config", "/scratch"))
		assert.Equal(t, [][]string{{"mono", "/scratch/nuget.exe", "install", "/mod/packages.config", "-OutputDirectory", "/scratch"}}, r.calls)
	})

	t.Run("negative exit code is fatal", func(t *testing.T) {
		inst := NewExeInstaller("nuget.exe", nil, nil)
		inst.Runner = &fakeRunner{code: -1}

		err := inst.Install(ctx, "packages.config", "out")
		assert.ErrorIs(t, err, ErrInstallFailed)
		assert.ErrorContains(t, err, "failed to get nuget packages")
	})

	t.Run("positive exit code is fatal", func(t *testing.T) {
		inst := NewExeInstaller("nuget.exe", nil, nil)
		inst.Runner = &fakeRunner{code: 1}

		assert.ErrorIs(t, inst.Install(ctx, "packages.config", "out"), ErrInstallFailed)
	})

	t.Run("list returns stdout", func(t *testing.T) {
		r := &fakeRunner{stdout: frozenWorld + " 1.1.1\r\n"}
		inst := NewExeInstaller("nuget.exe", nil, nil)
		inst.Runner = r

		out, err := inst.List(ctx, "out")
		require.NoError(t, err)
		assert.Equal(t, frozenWorld+" 1.1.1\r\n", out)
		assert.Equal(t, [][]string{{"nuget.exe", "list", "-Source", "out"}}, r.calls)
	})
}

func TestFeedInstaller(t *testing.T) {
	nupkg := buildNupkg(t, map[string]string{
		frozenWorld + ".nuspec": nuspecXML(frozenWorld, "1.1.1"),
		"lib/unity/Windows-x64/FrozenWorldPlugin.dll": "dll-x64",
		"lib/unity/Windows-UWP-ARM64/FrozenWorldPlugin.dll": "dll-uwp-arm64",
	})

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/package/"+frozenWorld+"/1.1.1" {
			http.NotFound(w, r)
			return
		}
		w.Write(nupkg)
	}))
	defer srv.Close()

	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(manifest, []byte(`<packages><package id="`+frozenWorld+`" version="1.1.1" /></packages>`), 0644))
	out := filepath.Join(dir, "scratch")
	ctx := context.Background()

	inst := NewFeedInstaller(srv.URL+"/", nil, nil)
	require.NoError(t, inst.Install(ctx, manifest, out))

	data, err := os.ReadFile(filepath.Join(out, frozenWorld+".1.1.1", "lib", "unity", "Windows-x64", "FrozenWorldPlugin.dll"))
	require.NoError(t, err)
	assert.Equal(t, "dll-x64", string(data))

	listing, err := inst.List(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, frozenWorld+" 1.1.1\n", listing)

	entry, ok := FindPackage(ParseListing(listing), frozenWorld)
	require.True(t, ok)
	assert.DirExists(t, filepath.Join(out, FolderName(entry)))

	require.NoError(t, inst.Install(ctx, manifest, out))
	assert.Equal(t, int32(1), hits.Load(), "installed packages must be skipped")
}

func TestFeedInstallerFolderFollowsNuspecCasing(t *testing.T) {
	nupkg := buildNupkg(t, map[string]string{
		frozenWorld + ".nuspec": nuspecXML(frozenWorld, "1.1.1"),
		"lib/unity/Windows-x64/FrozenWorldPlugin.dll": "dll-x64",
	})

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.EqualFold(r.URL.Path, "/package/"+frozenWorld+"/1.1.1") {
			http.NotFound(w, r)
			return
		}
		w.Write(nupkg)
	}))
	defer srv.Close()

	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	lower := strings.ToLower(frozenWorld)
	require.NoError(t, os.WriteFile(manifest, []byte(`<packages><package id="`+lower+`" version="1.1.1" /></packages>`), 0644))
	out := filepath.Join(dir, "scratch")
	ctx := context.Background()

	inst := NewFeedInstaller(srv.URL, nil, nil)
	require.NoError(t, inst.Install(ctx, manifest, out))

	listing, err := inst.List(ctx, out)
	require.NoError(t, err)
	entry, ok := FindPackage(ParseListing(listing), frozenWorld)
	require.True(t, ok)

	data, err := os.ReadFile(filepath.Join(out, FolderName(entry), "lib", "unity", "Windows-x64", "FrozenWorldPlugin.dll"))
	require.NoError(t, err)
	assert.Equal(t, "dll-x64", string(data))

	require.NoError(t, inst.Install(ctx, manifest, out))
	assert.Equal(t, int32(1), hits.Load(), "installed packages must be found regardless of id casing")
}

func TestFeedInstallerMissingPackage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(manifest, []byte(`<packages><package id="Nope" version="1.0.0" /></packages>`), 0644))

	err := NewFeedInstaller(srv.URL, nil, nil).Install(context.Background(), manifest, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.NoDirExists(t, filepath.Join(dir, "out", "Nope.1.0.0"))
}

func TestExtractNupkgRejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.nupkg")
	require.NoError(t, os.WriteFile(archive, buildNupkg(t, map[string]string{"../evil.txt": "x"}), 0644))

	err := extractNupkg(archive, filepath.Join(dir, "out"), hclog.NewNullLogger())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "evil.txt"))
}

func buildNupkg(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func nuspecXML(id, version string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>` + id + `</id>
    <version>` + version + `</version>
  </metadata>
</package>`
}
