// Package gemini implements the Gemini CLI adapter: skills and agents are
// symlinked into its global or project directory; prompts are projected as
// TOML command files (Gemini's own custom-command format); MCP servers are
// merged into a JSON sidecar file. Gemini has no public per-event hook
// mechanism, so every canonical event is unsupported here and sync only
// ever reports hook events as skipped.
package gemini

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/base"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/mcpmerge"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/tomlstring"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

const ToolID = "gemini"

var eventSupport = map[string]base.EventSupport{}

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "Gemini CLI" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("gemini.GlobalDir", err)
	}
	return filepath.Join(home, ".gemini"), nil
}

func (a *Adapter) ProjectMarker() string { return ".gemini" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	h.Write([]byte("mcp:sidecar skills:1 agents:1 prompts:toml hooks:none"))
	return h.Sum(nil)
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("gemini.baseDir", err)
		}
		return filepath.Join(home, ".gemini"), nil
	}
	return filepath.Join(sc.Dir, ".gemini"), nil
}

func (a *Adapter) Destination(t registry.ComponentType, sc hawksync.Scope) (string, error) {
	root, err := baseDir(sc)
	if err != nil {
		return "", err
	}
	switch t {
	case registry.Skill:
		return filepath.Join(root, "skills"), nil
	case registry.Agent:
		return filepath.Join(root, "agents"), nil
	case registry.Prompt:
		return filepath.Join(root, "commands"), nil
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
		return result, hawkerr.Wrap("gemini.Sync", err)
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

	// Runners are still generated (so a hook's payload is inspectable and
	// the sync is consistent with every other adapter), but since Gemini
	// has no native hook mechanism, every event comes back skipped.
	runnersDir := filepath.Join(root, "hawk-runners")
	hookNames := state.ComponentPlan(registry.Hook)
	if len(hookNames) > 0 {
		_, r, err := base.SyncHooks(runnersDir, hookNames, reg, nil, eventSupport)
		if err != nil {
			return result, err
		}
		result.Merge(r)
	}

	promptsDest, err := a.Destination(registry.Prompt, sc)
	if err != nil {
		return result, err
	}
	promptNames := state.ComponentPlan(registry.Prompt)
	desiredPrompts := map[string]string{}
	for _, name := range promptNames {
		p, err := reg.GetPath(registry.Prompt, name)
		if err != nil {
			result.Errors = append(result.Errors, hawksync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		content, err := os.ReadFile(p)
		if err != nil {
			result.Errors = append(result.Errors, hawksync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		desiredPrompts[name] = fmt.Sprintf("description = %s\nprompt = %s\n",
			tomlstring.Quote(name), tomlstring.QuoteMultiline(string(content)))
	}
	r, err = base.SyncGeneratedFiles(promptsDest, string(registry.Prompt), ".toml", desiredPrompts)
	if err != nil {
		return result, err
	}
	result.Merge(r)

	agentDest, err := a.Destination(registry.Agent, sc)
	if err != nil {
		return result, err
	}
	r, err = base.SyncSymlinks(agentDest, reg, registry.Agent, state.ComponentPlan(registry.Agent))
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
