// Package runner generates the per-event bash scripts that host tools
// invoke to dispatch an event to the user's enabled hooks.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hookmeta"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:runner")

var envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EnvVar is one variable to export before the first hook call.
type EnvVar struct {
	Name  string
	Value string
}

// Generate emits one executable script per event under runnersDir for the
// hooks named in hookNames, and removes any stale "*.sh" file left over
// from a previous generation that is no longer produced.
func Generate(hookNames []string, reg *registry.Registry, runnersDir string, env []EnvVar) error {
	if err := os.MkdirAll(runnersDir, 0o755); err != nil {
		return hawkerr.Wrap("runner.Generate", err)
	}

	byEvent := map[string][]call{}
	for _, name := range hookNames {
		path, err := reg.GetPath(registry.Hook, name)
		if err != nil {
			log.Printf("hook %q not found in registry, skipping", name)
			continue
		}
		meta := hookmeta.Parse(path)
		if meta.IsInert() {
			continue
		}
		c := callFor(path)
		for _, event := range meta.Events {
			byEvent[event] = append(byEvent[event], c)
		}
	}

	produced := map[string]bool{}
	for event, calls := range byEvent {
		script := render(calls, env)
		target := filepath.Join(runnersDir, event+".sh")
		if err := writeAtomic(target, script, 0o700); err != nil {
			return err
		}
		produced[event+".sh"] = true
	}

	return cleanStale(runnersDir, produced)
}

type call struct {
	path string
	kind extensionKind
}

type extensionKind int

const (
	kindPython extensionKind = iota
	kindBash
	kindNode
	kindBun
	kindCat
)

func callFor(path string) call {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".stdout.md"), strings.HasSuffix(base, ".stdout.txt"),
		strings.HasSuffix(base, ".md"), strings.HasSuffix(base, ".txt"):
		return call{path: path, kind: kindCat}
	case strings.HasSuffix(base, ".py"):
		return call{path: path, kind: kindPython}
	case strings.HasSuffix(base, ".sh"):
		return call{path: path, kind: kindBash}
	case strings.HasSuffix(base, ".js"):
		return call{path: path, kind: kindNode}
	case strings.HasSuffix(base, ".ts"):
		return call{path: path, kind: kindBun}
	default:
		return call{path: path, kind: kindBash}
	}
}

// interpreterFor resolves an absolute interpreter path via PATH, falling
// back to the bare command name if it cannot be found (the runner is
// still generated; it will fail loudly at invocation time instead of at
// generation time, which keeps `sync` itself from depending on what
// interpreters happen to be installed).
func interpreterFor(bin string) string {
	if p, err := exec.LookPath(bin); err == nil {
		return p
	}
	return bin
}

func render(calls []call, env []EnvVar) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	b.WriteString("set -euo pipefail\n")
	b.WriteString("INPUT=$(cat)\n")

	for _, e := range env {
		if !envNameRe.MatchString(e.Name) {
			log.Printf("dropping invalid env var name %q", e.Name)
			continue
		}
		fmt.Fprintf(&b, "export %s=%s\n", e.Name, shquote(e.Value))
	}

	for _, c := range calls {
		quoted := shquote(c.path)
		guard := fmt.Sprintf("[[ -f %s ]] && ", quoted)
		switch c.kind {
		case kindPython:
			fmt.Fprintf(&b, "%sprintf '%%s' \"$INPUT\" | %s %s || exit $?\n", guard, shquote(interpreterFor("python3")), quoted)
		case kindBash:
			fmt.Fprintf(&b, "%sprintf '%%s' \"$INPUT\" | %s %s || exit $?\n", guard, shquote(interpreterFor("bash")), quoted)
		case kindNode:
			fmt.Fprintf(&b, "%sprintf '%%s' \"$INPUT\" | %s %s || exit $?\n", guard, shquote(interpreterFor("node")), quoted)
		case kindBun:
			fmt.Fprintf(&b, "%sprintf '%%s' \"$INPUT\" | %s run %s || exit $?\n", guard, shquote(interpreterFor("bun")), quoted)
		case kindCat:
			fmt.Fprintf(&b, "%scat %s || exit $?\n", guard, quoted)
		}
	}

	b.WriteString("exit 0\n")
	return b.String()
}

func writeAtomic(target, contents string, mode os.FileMode) error {
	tmp := target + ".hawk-stage"
	if err := os.WriteFile(tmp, []byte(contents), mode); err != nil {
		return hawkerr.Wrap("runner.writeAtomic", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("runner.writeAtomic: rename", err)
	}
	return nil
}

func cleanStale(runnersDir string, produced map[string]bool) error {
	entries, err := os.ReadDir(runnersDir)
	if err != nil {
		return hawkerr.Wrap("runner.cleanStale", err)
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".sh") || produced[name] {
			continue
		}
		if err := os.Remove(filepath.Join(runnersDir, name)); err != nil {
			return hawkerr.Wrap("runner.cleanStale: remove "+name, err)
		}
	}
	return nil
}

// shquote produces a POSIX single-quoted shell literal of s.
func shquote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// EventsSorted returns the set of events present in hookNames' metadata,
// sorted, useful for reporting which runners a sync produced.
func EventsSorted(hookNames []string, reg *registry.Registry) []string {
	seen := map[string]bool{}
	for _, name := range hookNames {
		path, err := reg.GetPath(registry.Hook, name)
		if err != nil {
			continue
		}
		meta := hookmeta.Parse(path)
		for _, ev := range meta.Events {
			seen[ev] = true
		}
	}
	out := make([]string, 0, len(seen))
	for ev := range seen {
		out = append(out, ev)
	}
	sort.Strings(out)
	return out
}

// TimeoutFor returns the declared timeout for a hook, in seconds, or 0 if
// none was declared. Timeouts are advisory metadata surfaced to callers
// (e.g. an adapter writing per-hook settings); the runner itself does not
// enforce them.
func TimeoutFor(name string, reg *registry.Registry) int {
	path, err := reg.GetPath(registry.Hook, name)
	if err != nil {
		return 0
	}
	return hookmeta.Parse(path).Timeout
}
