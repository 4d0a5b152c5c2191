// Package opencode implements the OpenCode adapter: skills and agents are
// symlinked into its project or global directory; hooks are exposed as
// "<event>.sh" symlinks into a hooks directory OpenCode scans on startup,
// rather than registered into a settings file like Claude does; MCP servers
// are merged into an opencode.json sidecar.
package opencode

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/base"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/mcpmerge"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hookmeta"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

const ToolID = "opencode"

var eventSupport = func() map[string]base.EventSupport {
	m := make(map[string]base.EventSupport, len(hookmeta.CanonicalEvents))
	for _, ev := range hookmeta.CanonicalEvents {
		m[ev] = base.Native
	}
	return m
}()

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

func (a *Adapter) ToolID() string      { return ToolID }
func (a *Adapter) DisplayName() string { return "OpenCode" }

func (a *Adapter) GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", hawkerr.Wrap("opencode.GlobalDir", err)
	}
	return filepath.Join(home, ".config", "opencode"), nil
}

func (a *Adapter) ProjectMarker() string { return ".opencode" }

func (a *Adapter) CapabilityFingerprint() []byte {
	h := sha256.New()
	h.Write([]byte("mcp:sidecar skills:1 agents:1 hooks:symlink-scan"))
	return h.Sum(nil)
}

func baseDir(sc hawksync.Scope) (string, error) {
	if sc.Global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", hawkerr.Wrap("opencode.baseDir", err)
		}
		return filepath.Join(home, ".config", "opencode"), nil
	}
	return filepath.Join(sc.Dir, ".opencode"), nil
}

func (a *Adapter) Destination(t registry.ComponentType, sc hawksync.Scope) (string, error) {
	root, err := baseDir(sc)
	if err != nil {
		return "", err
	}
	switch t {
	case registry.Skill:
		return filepath.Join(root, "skill"), nil
	case registry.Agent:
		return filepath.Join(root, "agent"), nil
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
		return result, hawkerr.Wrap("opencode.Sync", err)
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

	hooksDir := filepath.Join(root, "hook")
	r, err = base.SyncEventSymlinks(hooksDir, runnersDir, registered)
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

	mcpPath := filepath.Join(root, "opencode.json")
	desired, probeResult := base.DesiredMCPServers(context.Background(), reg, state.ComponentPlan(registry.MCP))
	result.Merge(probeResult)
	linked, unlinked, err := mcpmerge.SyncFile(mcpPath, "mcp", desired)
	if err != nil {
		if hawkerr.IsConflict(err) {
			result.Errors = append(result.Errors, hawksync.Diagnostic{Target: "mcp", Reason: err.Error()})
		} else {
			return result, err
		}
	} else {
		result.Linked = append(result.Linked, linked...)
		result.Unlinked = append(result.Unlinked, unlinked...)
	}

	return result, nil
}
