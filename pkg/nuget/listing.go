// pkg/nuget/listing.go
package nuget

import "strings"

// ParseListing splits the output of a list command into lines. Both '\r'
// and '\n' terminate a line, so CRLF output yields empty entries between
// real ones; they never match a package prefix.
func ParseListing(output string) []string {
	return strings.FieldsFunc(output, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

// FindPackage returns the first entry that starts with prefix. Later
// matches are ignored.
func FindPackage(entries []string, prefix string) (string, bool) {
	for _, entry := range entries {
		if entry != "" && strings.HasPrefix(entry, prefix) {
			return entry, true
		}
	}
	return "", false
}

// FolderName turns a listing entry such as "Some.Package 1.2.3" into the
// name of the folder the package was installed into, "Some.Package.1.2.3".
func FolderName(entry string) string {
	return strings.ReplaceAll(entry, " ", ".")
}
