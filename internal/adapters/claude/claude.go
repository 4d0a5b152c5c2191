// Package claude implements the Claude Code adapter: skills, prompts
// (slash commands), and agents are symlinked into its global or project
// directory; hooks are registered into its JSON settings file; MCP servers
// are merged inline, into ~/.claude.json globally or <project>/.mcp.json
// at project scope, per the tool's own split between global and
// project-local MCP configuration.
package claude

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/base"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/mcpmerge"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

const ToolID = "claude"

// eventSupport declares Claude Code's native event vocabulary; every
// canonical event it implements maps 1:1 to its own PascalCase name.
var eventSupport = map[string]base.EventSupport{
	"pre_tool_use":       base.Native,
	"post_tool_use":      base.Native,
	"stop":               base.Native,
	"subagent_stop":      base.Native,
	"notification":       base.Native,
	"user_prompt_submit": base.Native,
	"session_start":      base.Native,
	"session_end":        base.Native,
	"pre_compact":        base.Native,
}

var nativeEventName = map[string]string{
	"pre_tool_use":       "PreToolUse",
	"post_tool_use":      "PostToolUse",
	"stop":               "Stop",
	"subagent_stop":      "SubagentStop",
	"notification":       "Notification",
	"user_prompt_submit": "UserPromptSubmit",
	"session_start":      "SessionStart",
	"session_end":        "SessionEnd",
	"pre_compact":        "PreCompact",
}

// Adapter implements sync.Adapter for Claude Code.
type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "Claude Code" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("claude.GlobalDir", err)
	}
	return filepath.Join(home, ".claude"), nil
}

func (a *Adapter) ProjectMarker() string { return ".claude" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	for event, level := range eventSupport {
		if level == base.Native {
			h.Write([]byte(event))
		}
	}
	h.Write([]byte("mcp:inline skills:1 prompts:1 agents:1"))
	return h.Sum(nil)
}

func (a *Adapter) Destination(t registry.ComponentType, sc hawksync.Scope) (string, error) {
	root, err := baseDir(sc)
	if err != nil {
		return "", err
	}
	switch t {
	case registry.Skill:
		return filepath.Join(root, "skills"), nil
	case registry.Prompt:
		return filepath.Join(root, "commands"), nil
	case registry.Agent:
		return filepath.Join(root, "agents"), nil
	default:
		return root, nil
	}
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("claude.baseDir", err)
		}
		return filepath.Join(home, ".claude"), nil
	}
	return filepath.Join(sc.Dir, ".claude"), nil
}

func settingsPath(root string) string {
	return filepath.Join(root, "settings.json")
}

func mcpConfigPath(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("claude.mcpConfigPath", err)
		}
		return filepath.Join(home, ".claude.json"), nil
	}
	return filepath.Join(sc.Dir, ".mcp.json"), nil
}

func (a *Adapter) Sync(state scope.ResolvedState, sc hawksync.Scope, reg *registry.Registry) (hawksync.Result, error) {
	var result hawksync.Result
	root, err := baseDir(sc)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return result, hawkerr.Wrap("claude.Sync", err)
	}

	symlink := func(t registry.ComponentType) error {
		dest, err := a.Destination(t, sc)
		if err != nil {
			return err
		}
		r, err := base.SyncSymlinks(dest, reg, t, state.ComponentPlan(t))
		if err != nil {
			return err
		}
		result.Merge(r)
		return nil
	}
	if err := symlink(registry.Skill); err != nil {
		return result, err
	}

	runnersDir := filepath.Join(root, "hawk-runners")
	registered, r, err := base.SyncHooks(runnersDir, state.ComponentPlan(registry.Hook), reg, nil, eventSupport)
	if err != nil {
		return result, err
	}
	result.Merge(r)
	if result.OK() && len(registered) > 0 {
		native := make(map[string]string, len(registered))
		for _, ev := range registered {
			native[ev] = nativeEventName[ev]
		}
		r, err := base.SyncJSONHooks(settingsPath(root), "hooks", runnersDir, native)
		if err != nil {
			return result, err
		}
		result.Merge(r)
	}

	for _, t := range []registry.ComponentType{registry.Prompt, registry.Agent} {
		if err := symlink(t); err != nil {
			return result, err
		}
	}

	desired, probeResult := base.DesiredMCPServers(context.Background(), reg, state.ComponentPlan(registry.MCP))
	result.Merge(probeResult)
	path, err := mcpConfigPath(sc)
	if err != nil {
		return result, err
	}
	linked, unlinked, err := mcpmerge.SyncFile(path, "mcpServers", desired)
	if err != nil {
		if hawkerr.IsConflict(err) {
			result.Errors = append(result.Errors, hawksync.Diagnostic{Target: "mcpServers", Reason: err.Error()})
		} else {
			return result, err
		}
	} else {
		result.Linked = append(result.Linked, linked...)
		result.Unlinked = append(result.Unlinked, unlinked...)
	}

	return result, nil
}
