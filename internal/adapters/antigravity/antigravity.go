// Package antigravity implements an adapter for Antigravity, modeled as a
// Claude-like JSON-settings tool with its own global directory. No public
// specification of Antigravity's on-disk layout exists at the time of
// writing, so this adapter's directory and file names are an invented but
// internally consistent convention, not a documented integration.
package antigravity

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

const ToolID = "antigravity"

var eventSupport = map[string]base.EventSupport{
	"pre_tool_use":       base.Native,
	"post_tool_use":      base.Native,
	"stop":               base.Native,
	"notification":       base.Native,
	"user_prompt_submit": base.Native,
}

var nativeEventName = map[string]string{
	"pre_tool_use":       "preToolUse",
	"post_tool_use":      "postToolUse",
	"stop":               "stop",
	"notification":       "notification",
	"user_prompt_submit": "userPromptSubmit",
}

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "Antigravity" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("antigravity.GlobalDir", err)
	}
	return filepath.Join(home, ".antigravity"), nil
}

func (a *Adapter) ProjectMarker() string { return ".antigravity" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	for event, level := range eventSupport {
		if level == base.Native {
			h.Write([]byte(event))
		}
	}
	h.Write([]byte("mcp:sidecar skills:1 prompts:1 agents:1"))
	return h.Sum(nil)
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("antigravity.baseDir", err)
		}
		return filepath.Join(home, ".antigravity"), nil
	}
	return filepath.Join(sc.Dir, ".antigravity"), nil
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
		return filepath.Join(root, "prompts"), nil
	case registry.Agent:
		return filepath.Join(root, "agents"), nil
	default:
		return root, nil
	}
}

func settingsPath(root string) string {
	return filepath.Join(root, "settings.json")
}

func (a *Adapter) Sync(state scope.ResolvedState, sc hawksync.Scope, reg *registry.Registry) (hawksync.Result, error) {
	var result hawksync.Result
	root, err := baseDir(sc)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return result, hawkerr.Wrap("antigravity.Sync", err)
	}

	skillDest, err := a.Destination(registry.Skill, sc)
	if err != nil {
		return result, err
	}
	r, err := base.SyncSymlinks(skillDest, reg, registry.Skill, state.ComponentPlan(registry.Skill))
	if err != nil {
		return result, err
	}
	result.Merge(r)

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
		dest, err := a.Destination(t, sc)
		if err != nil {
			return result, err
		}
		r, err := base.SyncSymlinks(dest, reg, t, state.ComponentPlan(t))
		if err != nil {
			return result, err
		}
		result.Merge(r)
	}

	mcpPath := filepath.Join(root, "mcp.json")
	desired, probeResult := base.DesiredMCPServers(context.Background(), reg, state.ComponentPlan(registry.MCP))
	result.Merge(probeResult)
	linked, unlinked, err := mcpmerge.SyncFile(mcpPath, "mcpServers", desired)
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
