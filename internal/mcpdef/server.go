// Package mcpdef defines the registry's on-disk MCP server record format:
// one YAML file per server under registry/mcp/<name>.yaml.
package mcpdef

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// Transport is how a client reaches the server process.
type Transport string

const (
	Stdio Transport = "stdio"
	HTTP  Transport = "http"
)

// ServerSpec is one MCP server record, transport-agnostic: Stdio servers
// set Command/Args/Env; HTTP servers set URL and, optionally, Headers.
type ServerSpec struct {
	Transport Transport         `yaml:"transport,omitempty" json:"transport,omitempty"`
	Command   string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args      []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env       map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	URL       string            `yaml:"url,omitempty" json:"url,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// Load reads and parses a server record from path.
func Load(path string) (ServerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerSpec{}, hawkerr.Wrap("mcpdef.Load", err)
	}
	var s ServerSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return ServerSpec{}, hawkerr.Validationf("%s: malformed mcp server record: %v", path, err)
	}
	if s.Transport == "" {
		if s.URL != "" {
			s.Transport = HTTP
		} else {
			s.Transport = Stdio
		}
	}
	return s, nil
}

// AsJSON renders the spec in the shape most host tools expect under their
// mcpServers map: stdio servers get command/args/env, http servers get
// url/headers. Transport is omitted, matching how e.g. Claude Code's own
// mcpServers entries look on disk.
func (s ServerSpec) AsJSON() map[string]any {
	out := map[string]any{}
	switch s.Transport {
	case HTTP:
		out["url"] = s.URL
		if len(s.Headers) > 0 {
			out["headers"] = s.Headers
		}
	default:
		out["command"] = s.Command
		if len(s.Args) > 0 {
			out["args"] = s.Args
		}
		if len(s.Env) > 0 {
			out["env"] = s.Env
		}
	}
	return out
}
