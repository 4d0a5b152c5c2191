// Package cursor implements the Cursor adapter: skills and prompts are
// symlinked (prompts become Cursor's project rules), MCP servers are merged
// into a .cursor/mcp.json sidecar. Cursor has no per-event hook mechanism of
// its own, so hooks degrade to a generated-but-skipped runner set exactly
// like Gemini.
package cursor

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

const ToolID = "cursor"

var eventSupport = map[string]base.EventSupport{}

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "Cursor" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("cursor.GlobalDir", err)
	}
	return filepath.Join(home, ".cursor"), nil
}

func (a *Adapter) ProjectMarker() string { return ".cursor" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	h.Write([]byte("mcp:sidecar skills:1 prompts:rules hooks:none"))
	return h.Sum(nil)
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("cursor.baseDir", err)
		}
		return filepath.Join(home, ".cursor"), nil
	}
	return filepath.Join(sc.Dir, ".cursor"), nil
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
		return filepath.Join(root, "rules"), nil
	default:
		return root, nil
	}
}

func (a *Adapter) Sync(state scope.ResolvedState, sc hawksync.Scope, reg *registry.Registry) (hawksync.Result, error) {
	var result hawksync.Result
	root, err := baseDir(sc)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return result, hawkerr.Wrap("cursor.Sync", err)
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

	// Cursor has no native per-event hook mechanism; runner scripts are
	// still generated for inspectability but every event comes back
	// skipped, same as Gemini.
	runnersDir := filepath.Join(root, "hawk-runners")
	hookNames := state.ComponentPlan(registry.Hook)
	if len(hookNames) > 0 {
		_, r, err := base.SyncHooks(runnersDir, hookNames, reg, nil, eventSupport)
		if err != nil {
			return result, err
		}
		result.Merge(r)
	}

	promptDest, err := a.Destination(registry.Prompt, sc)
	if err != nil {
		return result, err
	}
	r, err = base.SyncSymlinks(promptDest, reg, registry.Prompt, state.ComponentPlan(registry.Prompt))
	if err != nil {
		return result, err
	}
	result.Merge(r)

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
