package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// TypeOverride is a per-tool, per-component-type override list.
type TypeOverride struct {
	Extra   []string `yaml:"extra,omitempty" json:"extra,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// ToolOverride is one tool's section within a layer's "tools" map.
type ToolOverride struct {
	Enabled *bool        `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Skills  TypeOverride `yaml:"skills,omitempty" json:"skills,omitempty"`
	Hooks   TypeOverride `yaml:"hooks,omitempty" json:"hooks,omitempty"`
	Prompts TypeOverride `yaml:"prompts,omitempty" json:"prompts,omitempty"`
	Agents  TypeOverride `yaml:"agents,omitempty" json:"agents,omitempty"`
	MCP     TypeOverride `yaml:"mcp,omitempty" json:"mcp,omitempty"`
}

// IsEnabled reports whether this tool is enabled for this layer; a nil
// Enabled field defaults to true so an omitted tools.<id> section never
// silently disables a tool.
func (t ToolOverride) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// GlobalSection is the per-type enabled-component lists carried by every
// layer (named "global" in the schema for historical reasons even on
// directory-scope layers, since it is the layer's own direct values).
type GlobalSection struct {
	Skills  []string `yaml:"skills,omitempty" json:"skills,omitempty"`
	Hooks   []string `yaml:"hooks,omitempty" json:"hooks,omitempty"`
	Prompts []string `yaml:"prompts,omitempty" json:"prompts,omitempty"`
	Agents  []string `yaml:"agents,omitempty" json:"agents,omitempty"`
	MCP     []string `yaml:"mcp,omitempty" json:"mcp,omitempty"`
}

// Layer is one configuration file's parsed contents, at any scope.
type Layer struct {
	Global  GlobalSection           `yaml:"global" json:"global"`
	Tools   map[string]ToolOverride `yaml:"tools,omitempty" json:"tools,omitempty"`
	Profile string                  `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// IsEmpty reports whether the layer has no content of its own. Empty
// layers are still kept in the scope chain; they just contribute nothing
// to the merge.
func (l Layer) IsEmpty() bool {
	return len(l.Global.Skills) == 0 && len(l.Global.Hooks) == 0 &&
		len(l.Global.Prompts) == 0 && len(l.Global.Agents) == 0 &&
		len(l.Global.MCP) == 0 && len(l.Tools) == 0 && l.Profile == ""
}

// LoadLayer reads and parses a layer file, tolerating a missing file as an
// empty layer.
func LoadLayer(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layer{}, nil
	}
	if err != nil {
		return Layer{}, hawkerr.Wrap("config.LoadLayer", err)
	}
	if err := ValidateLayerShape(data); err != nil {
		return Layer{}, hawkerr.Validationf("%s: %v", path, err)
	}

	var l Layer
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layer{}, hawkerr.Validationf("%s: malformed configuration: %v", path, err)
	}
	return l, nil
}

// SaveLayer writes a layer back to path atomically.
func SaveLayer(path string, l Layer) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return hawkerr.Wrap("config.SaveLayer: marshal", err)
	}
	tmp := path + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("config.SaveLayer: write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("config.SaveLayer: rename", err)
	}
	return nil
}

// LoadProfile reads a named profile layer from the global profiles
// directory. Profile overlays are single-level: a profile naming its own
// Profile is rejected outright, since chasing it would permit a cycle.
func LoadProfile(paths Paths, layerName, name string) (Layer, error) {
	l, err := LoadLayer(paths.ProfileFile(name))
	if err != nil {
		return Layer{}, err
	}
	if l.Profile != "" {
		return Layer{}, hawkerr.Validationf(
			"%s: profile %q references profile %q; profile overlays may not be nested", layerName, name, l.Profile)
	}
	return l, nil
}

// Overlay merges a profile's direct values underneath the layer's own
// direct values: fields the layer itself sets take precedence, and any
// type list the layer left empty is filled in from the profile.
func (l Layer) Overlay(profile Layer) Layer {
	out := l
	if len(out.Global.Skills) == 0 {
		out.Global.Skills = profile.Global.Skills
	}
	if len(out.Global.Hooks) == 0 {
		out.Global.Hooks = profile.Global.Hooks
	}
	if len(out.Global.Prompts) == 0 {
		out.Global.Prompts = profile.Global.Prompts
	}
	if len(out.Global.Agents) == 0 {
		out.Global.Agents = profile.Global.Agents
	}
	if len(out.Global.MCP) == 0 {
		out.Global.MCP = profile.Global.MCP
	}
	if out.Tools == nil {
		out.Tools = profile.Tools
	}
	return out
}
