package hookmeta

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:hookmeta")

// headerPrefix is the per-line marker scripts use for self-description.
const headerPrefix = "# hawk-hook:"

var scriptExtensions = map[string]bool{".py": true, ".sh": true, ".js": true, ".ts": true}

// Parse reads path and returns its metadata. It never returns an error:
// malformed YAML, unreadable files, and binary content all resolve to an
// empty Meta instead of failing the caller's walk.
func Parse(path string) Meta {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("parse %s: %v", path, err)
		return Meta{}
	}
	text := string(data)
	ext := filepath.Ext(path)

	var m Meta
	switch {
	case scriptExtensions[ext]:
		m = parseScriptHeader(text)
	case strings.HasPrefix(text, "---\n") || strings.HasPrefix(text, "---\r\n"):
		m = parseFrontmatter(text)
	}

	if m.IsInert() {
		if parent := filepath.Base(filepath.Dir(path)); IsKnownEvent(parent) {
			m.Events = []string{parent}
		}
	}

	m.Events = normalizeEvents(m.Events)
	return m
}

// parseScriptHeader scans contiguous leading comment lines (after an
// optional shebang), stopping at the first non-blank, non-comment line, and
// extracts "# hawk-hook: key=value" lines.
func parseScriptHeader(text string) Meta {
	scanner := bufio.NewScanner(strings.NewReader(text))
	var m Meta
	first := true

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if first {
			first = false
			if strings.HasPrefix(trimmed, "#!") {
				continue
			}
		}
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			break
		}
		if !strings.HasPrefix(trimmed, headerPrefix) {
			continue
		}

		kv := strings.TrimSpace(strings.TrimPrefix(trimmed, headerPrefix))
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		applyField(&m, key, val)
	}
	return m
}

func applyField(m *Meta, key, val string) {
	switch key {
	case "events":
		m.Events = append(m.Events, splitCommaList(val)...)
	case "description":
		m.Description = val
	case "deps":
		m.Deps = append(m.Deps, splitCommaList(val)...)
	case "env":
		m.Env = append(m.Env, val) // multiple env lines accumulate
	case "timeout":
		if secs, err := strconv.Atoi(val); err == nil {
			m.Timeout = secs
		}
	}
}

func splitCommaList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// frontmatterDoc mirrors the "hawk-hook:" submapping of a YAML frontmatter
// block. events/env accept either a list or a scalar (comma-separated for
// events, single value for env), so they're parsed as yaml.Node-less `any`
// and normalized by hand.
type frontmatterDoc struct {
	HawkHook struct {
		Events      any    `yaml:"events"`
		Description string `yaml:"description"`
		Deps        any    `yaml:"deps"`
		Env         any    `yaml:"env"`
		Timeout     int    `yaml:"timeout"`
	} `yaml:"hawk-hook"`
}

// parseFrontmatter parses the YAML block delimited by "---\n ... \n---".
// A truncated/unterminated block (no closing delimiter) yields empty
// metadata rather than an error.
func parseFrontmatter(text string) Meta {
	body := strings.TrimPrefix(text, "---\r\n")
	body = strings.TrimPrefix(body, "---\n")

	end := strings.Index(body, "\n---")
	if end < 0 {
		return Meta{}
	}
	block := body[:end]

	var doc frontmatterDoc
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		log.Printf("frontmatter yaml parse error: %v", err)
		return Meta{}
	}

	var m Meta
	m.Description = doc.HawkHook.Description
	m.Timeout = doc.HawkHook.Timeout
	m.Events = toStringList(doc.HawkHook.Events, true)
	m.Deps = toStringList(doc.HawkHook.Deps, false)
	m.Env = toStringList(doc.HawkHook.Env, false)
	return m
}

// toStringList accepts either a YAML sequence or a scalar string value. For
// the "events" field specifically, a scalar is additionally split on commas
// so "stop, notification" and a YAML list both resolve the same way.
func toStringList(v any, splitCommaIfScalar bool) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if splitCommaIfScalar {
			return splitCommaList(val)
		}
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}
