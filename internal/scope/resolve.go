// Package scope builds the scope chain for a working directory and merges
// its layered configuration into one resolved component set per tool.
package scope

import (
	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:scope")

// ResolvedState is the outcome of resolving a scope chain for one tool: for
// every component type, the deterministic ordered, deduplicated list of
// enabled component names.
type ResolvedState struct {
	Tool    string
	enabled bool
	byType  map[registry.ComponentType][]string
}

// ComponentPlan returns the resolved names for t, or nil if none are enabled.
func (s ResolvedState) ComponentPlan(t registry.ComponentType) []string {
	return s.byType[t]
}

// ToolEnabled reports whether tools.<tool>.enabled resolved to true for
// this scope chain. The sync engine skips a disabled tool entirely rather
// than treating it as an error: disabling a tool is a routine config
// choice, not a validation failure.
func (s ResolvedState) ToolEnabled() bool {
	return s.enabled
}

// Resolve builds the scope chain for cwd and merges it for tool, per the
// global layer then registered-ancestor chain then unregistered-local
// fallback, profile overlays, and tool overrides.
func Resolve(paths config.Paths, cwd, tool string) (ResolvedState, error) {
	global, err := config.LoadLayer(paths.ConfigFile())
	if err != nil {
		return ResolvedState{}, err
	}
	global, err = applyProfile(paths, "global", global)
	if err != nil {
		return ResolvedState{}, err
	}

	projects, err := config.LoadProjects(paths.ProjectsFile())
	if err != nil {
		return ResolvedState{}, err
	}

	layers := []config.Layer{global}

	ancestors, err := projects.AncestorsOf(cwd)
	if err != nil {
		return ResolvedState{}, err
	}
	for _, dir := range ancestors {
		l, err := config.LoadLayer(config.Local(dir).ConfigFile())
		if err != nil {
			return ResolvedState{}, err
		}
		l, err = applyProfile(paths, dir, l)
		if err != nil {
			return ResolvedState{}, err
		}
		layers = append(layers, l)
	}

	// Unregistered-local fallback: only when cwd itself isn't registered.
	// A registered cwd already appears in `ancestors` above (AncestorsOf
	// includes the directory itself), so this never double-counts it.
	if !projects.IsRegistered(cwd) {
		l, err := config.LoadLayer(config.Local(cwd).ConfigFile())
		if err != nil {
			return ResolvedState{}, err
		}
		if !l.IsEmpty() {
			l, err = applyProfile(paths, cwd, l)
			if err != nil {
				return ResolvedState{}, err
			}
			layers = append(layers, l)
		}
	}

	override := toolOverride(layers, tool)
	state := ResolvedState{Tool: tool, enabled: override.IsEnabled(), byType: map[registry.ComponentType][]string{}}
	if !state.enabled {
		log.Printf("tool %q disabled for %s", tool, cwd)
		return state, nil
	}

	for _, t := range registry.AllTypes {
		state.byType[t] = mergeType(layers, override, t)
	}
	return state, nil
}

// applyProfile overlays l's named profile, if any, beneath l's own values.
// layerName identifies l for error messages (e.g. "global" or its directory).
func applyProfile(paths config.Paths, layerName string, l config.Layer) (config.Layer, error) {
	if l.Profile == "" {
		return l, nil
	}
	profile, err := config.LoadProfile(paths, layerName, l.Profile)
	if err != nil {
		return config.Layer{}, err
	}
	return l.Overlay(profile), nil
}

func toolOverride(layers []config.Layer, tool string) config.ToolOverride {
	// The innermost layer's tool override wins for "enabled"; extra/exclude
	// are collected from every layer that declares them, since they are
	// additive per-layer annotations, not a single setting to override.
	var out config.ToolOverride
	out.Enabled = nil
	for _, l := range layers {
		if ov, ok := l.Tools[tool]; ok {
			if ov.Enabled != nil {
				out.Enabled = ov.Enabled
			}
			out.Skills.Extra = append(out.Skills.Extra, ov.Skills.Extra...)
			out.Skills.Exclude = append(out.Skills.Exclude, ov.Skills.Exclude...)
			out.Hooks.Extra = append(out.Hooks.Extra, ov.Hooks.Extra...)
			out.Hooks.Exclude = append(out.Hooks.Exclude, ov.Hooks.Exclude...)
			out.Prompts.Extra = append(out.Prompts.Extra, ov.Prompts.Extra...)
			out.Prompts.Exclude = append(out.Prompts.Exclude, ov.Prompts.Exclude...)
			out.Agents.Extra = append(out.Agents.Extra, ov.Agents.Extra...)
			out.Agents.Exclude = append(out.Agents.Exclude, ov.Agents.Exclude...)
			out.MCP.Extra = append(out.MCP.Extra, ov.MCP.Extra...)
			out.MCP.Exclude = append(out.MCP.Exclude, ov.MCP.Exclude...)
		}
	}
	return out
}

// mergeType implements the union -> exclude -> extra merge for one
// component type, deduplicating while preserving first occurrence.
func mergeType(layers []config.Layer, override config.ToolOverride, t registry.ComponentType) []string {
	var union []string
	for _, l := range layers {
		union = append(union, typeList(l.Global, t)...)
	}

	typeOverride := typeOverrideFor(override, t)
	excluded := toSet(typeOverride.Exclude)

	var merged []string
	for _, name := range union {
		if excluded[name] {
			continue
		}
		merged = append(merged, name)
	}
	merged = append(merged, typeOverride.Extra...)

	return dedupePreserveOrder(merged)
}

func typeList(g config.GlobalSection, t registry.ComponentType) []string {
	switch t {
	case registry.Skill:
		return g.Skills
	case registry.Hook:
		return g.Hooks
	case registry.Prompt:
		return g.Prompts
	case registry.Agent:
		return g.Agents
	case registry.MCP:
		return g.MCP
	default:
		return nil
	}
}

func typeOverrideFor(ov config.ToolOverride, t registry.ComponentType) config.TypeOverride {
	switch t {
	case registry.Skill:
		return ov.Skills
	case registry.Hook:
		return ov.Hooks
	case registry.Prompt:
		return ov.Prompts
	case registry.Agent:
		return ov.Agents
	case registry.MCP:
		return ov.MCP
	default:
		return config.TypeOverride{}
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[i] = true
	}
	return out
}

func dedupePreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, i := range items {
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}
