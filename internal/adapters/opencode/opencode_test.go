package opencode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(t.TempDir())
	require.NoError(t, reg.EnsureDirs())
	return reg
}

func resolvedState(t *testing.T, hooks, agents []string) scope.ResolvedState {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: hooks, Agents: agents},
	}))
	state, err := scope.Resolve(paths, t.TempDir(), ToolID)
	require.NoError(t, err)
	return state
}

func TestSyncSymlinksHookRunnerIntoHooksDir(t *testing.T) {
	reg := newTestRegistry(t)

	agentDir := filepath.Join(t.TempDir(), "reviewer")
	require.NoError(t, os.MkdirAll(agentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(agentDir, "AGENT.md"), []byte("# reviewer\n"), 0o644))
	storedAgent, err := reg.Add(registry.Agent, "reviewer", agentDir, false)
	require.NoError(t, err)

	hookSrc := filepath.Join(t.TempDir(), "notify.sh")
	require.NoError(t, os.WriteFile(hookSrc, []byte("#!/bin/bash\n# hawk-hook: events=stop\n"), 0o644))
	_, err = reg.Add(registry.Hook, "notify", hookSrc, false)
	require.NoError(t, err)

	state := resolvedState(t, []string{"notify"}, []string{"reviewer"})

	a := New()
	projectRoot := t.TempDir()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	agentLink := filepath.Join(projectRoot, ".opencode", "agent", "reviewer")
	target, err := os.Readlink(agentLink)
	require.NoError(t, err)
	require.Equal(t, storedAgent, target)

	hookLink := filepath.Join(projectRoot, ".opencode", "hook", "stop.sh")
	runnerTarget, err := os.Readlink(hookLink)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(projectRoot, ".opencode", "hawk-runners", "stop.sh"), runnerTarget)
}

func TestSyncPreservesUserManagedMCPEntry(t *testing.T) {
	reg := newTestRegistry(t)
	state := resolvedState(t, nil, nil)

	projectRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectRoot, ".opencode"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, ".opencode", "opencode.json"), []byte(
		`{"mcp":{"hand-authored":{"command":"my-own-server"}}}`), 0o644))

	a := New()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	data, err := os.ReadFile(filepath.Join(projectRoot, ".opencode", "opencode.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	servers := doc["mcp"].(map[string]any)
	require.Contains(t, servers, "hand-authored")
}
