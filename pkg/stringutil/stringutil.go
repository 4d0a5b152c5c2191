// Package stringutil provides small string-normalization helpers shared by
// the registry and command-line layers.
package stringutil

import "strings"

// knownComponentExtensions lists source-file extensions stripped when a
// component name is derived from its source path, longest first so a
// double extension like ".lock.yaml" isn't left with a dangling ".lock".
var knownComponentExtensions = []string{".lock.yaml", ".lock.yml", ".yaml", ".yml", ".md", ".sh"}

// StripKnownExtension removes the first recognized component source
// extension from name, or returns name unchanged if none match.
func StripKnownExtension(name string) string {
	for _, ext := range knownComponentExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// NormalizeEventToken converts a dash-separated event token, as a user is
// liable to type on the command line, to the underscore-separated form
// every canonical event name and frontmatter field actually uses.
func NormalizeEventToken(token string) string {
	return strings.ReplaceAll(strings.ToLower(token), "-", "_")
}
