// Package tomlstring escapes arbitrary string content for splicing into
// hand-assembled TOML source text (for example a notify-command path or a
// hook description written inline into a generated config.toml), outside
// of BurntSushi/toml's own struct-marshal path. It does not serialize
// structs; toml.Marshal already owns that. It exists only because the core
// sometimes emits TOML as text rather than round-tripping a Go value, and
// the standard library has no TOML string-escaping primitive of its own.
package tomlstring

import (
	"fmt"
	"strings"
)

// Quote renders s as a basic (double-quoted, single-line) TOML string,
// escaping backslashes, double quotes, and control characters per the TOML
// spec. This is the right form for path strings and other single-line
// values where literal backslashes must survive intact (e.g. Windows
// paths), unlike TOML's literal-string form which cannot escape anything.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteMultiline renders s as a TOML multi-line basic string (triple
// double-quoted), for descriptions or bodies that legitimately contain
// newlines. A literal """ sequence inside s would prematurely close the
// string, so in any run of two or more consecutive double quotes every
// quote from the second onward is escaped; a quote that ends s (which
// would merge with the closing delimiter) is also escaped.
func QuoteMultiline(s string) string {
	var b strings.Builder
	b.WriteString(`"""`)
	b.WriteString(escapeQuoteRuns(escapeBackslashes(s)))
	b.WriteString(`"""`)
	return b.String()
}

func escapeBackslashes(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

// escapeQuoteRuns walks s and escapes a '"' whenever it is the second (or
// later) quote in a run of consecutive quotes, or is the final character of
// s. A bare run of three quotes would otherwise be read as the closing
// delimiter, and a single trailing quote would fuse with the closing """;
// escaping from the second quote of any run (and always escaping a
// string-final quote) avoids both without needing to special-case run
// length three specifically.
func escapeQuoteRuns(s string) string {
	runes := []rune(s)
	var b strings.Builder
	run := 0
	for i, r := range runes {
		if r != '"' {
			run = 0
			b.WriteRune(r)
			continue
		}
		run++
		if run >= 2 || i == len(runes)-1 {
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	}
	return b.String()
}
