package consoleout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func applyStyle(w io.Writer, style lipgloss.Style, text string) string {
	if isTTY(w) {
		return style.Render(text)
	}
	return text
}

// RenderResults formats a per-tool sync.Result map as human-readable text:
// one section per tool, sorted by tool ID, listing linked/unlinked entries
// and any skipped or error diagnostics.
func RenderResults(w io.Writer, results map[string]hawksync.Result) string {
	tools := make([]string, 0, len(results))
	for tool := range results {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	var b strings.Builder
	for _, tool := range tools {
		r := results[tool]
		b.WriteString(applyStyle(w, toolStyle, tool))
		b.WriteString("\n")

		for _, name := range r.Linked {
			fmt.Fprintf(&b, "  %s %s\n", applyStyle(w, successStyle, "+"), name)
		}
		for _, name := range r.Unlinked {
			fmt.Fprintf(&b, "  %s %s\n", applyStyle(w, mutedStyle, "-"), name)
		}
		for _, d := range r.Skipped {
			fmt.Fprintf(&b, "  %s %s: %s\n", applyStyle(w, warnStyle, "skip"), d.Target, d.Reason)
		}
		for _, d := range r.Errors {
			fmt.Fprintf(&b, "  %s %s: %s\n", applyStyle(w, errorStyle, "error"), d.Target, d.Reason)
		}
		if len(r.Linked)+len(r.Unlinked)+len(r.Skipped)+len(r.Errors) == 0 {
			fmt.Fprintf(&b, "  %s\n", applyStyle(w, mutedStyle, "up to date"))
		}
	}
	return b.String()
}

// OutputResultsOrJSON writes results to w either as the rendered text
// summary or, when asJSON is true, as indented JSON.
func OutputResultsOrJSON(w io.Writer, results map[string]hawksync.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	_, err := io.WriteString(w, RenderResults(w, results))
	return err
}
