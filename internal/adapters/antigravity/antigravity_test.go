package antigravity

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

func resolvedState(t *testing.T, hooks, skills []string) scope.ResolvedState {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: hooks, Skills: skills},
	}))
	state, err := scope.Resolve(paths, t.TempDir(), ToolID)
	require.NoError(t, err)
	return state
}

func TestSyncRegistersHookIntoSettings(t *testing.T) {
	reg := newTestRegistry(t)

	skillDir := filepath.Join(t.TempDir(), "formatter")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("# formatter\n"), 0o644))
	storedSkill, err := reg.Add(registry.Skill, "formatter", skillDir, false)
	require.NoError(t, err)

	hookSrc := filepath.Join(t.TempDir(), "notify.sh")
	require.NoError(t, os.WriteFile(hookSrc, []byte("#!/bin/bash\n# hawk-hook: events=stop\n"), 0o644))
	_, err = reg.Add(registry.Hook, "notify", hookSrc, false)
	require.NoError(t, err)

	state := resolvedState(t, []string{"notify"}, []string{"formatter"})

	a := New()
	projectRoot := t.TempDir()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	link := filepath.Join(projectRoot, ".antigravity", "skills", "formatter")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	require.Equal(t, storedSkill, target)

	settingsData, err := os.ReadFile(filepath.Join(projectRoot, ".antigravity", "settings.json"))
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(settingsData, &settings))
	hooks := settings["hooks"].(map[string]any)
	require.Contains(t, hooks, "stop")
}

func TestSyncPreservesUserManagedMCPEntry(t *testing.T) {
	reg := newTestRegistry(t)
	state := resolvedState(t, nil, nil)

	projectRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectRoot, ".antigravity"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, ".antigravity", "mcp.json"), []byte(
		`{"mcpServers":{"hand-authored":{"command":"my-own-server"}}}`), 0o644))

	a := New()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	data, err := os.ReadFile(filepath.Join(projectRoot, ".antigravity", "mcp.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	servers := doc["mcpServers"].(map[string]any)
	require.Contains(t, servers, "hand-authored")
}
