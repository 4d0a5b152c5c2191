package cursor

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

func resolvedState(t *testing.T, prompts []string) scope.ResolvedState {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Prompts: prompts},
	}))
	state, err := scope.Resolve(paths, t.TempDir(), ToolID)
	require.NoError(t, err)
	return state
}

func TestSyncSymlinksRuleFromPrompt(t *testing.T) {
	reg := newTestRegistry(t)
	src := filepath.Join(t.TempDir(), "style.md")
	require.NoError(t, os.WriteFile(src, []byte("# style\n"), 0o644))
	stored, err := reg.Add(registry.Prompt, "style", src, false)
	require.NoError(t, err)

	state := resolvedState(t, []string{"style"})

	a := New()
	projectRoot := t.TempDir()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	link := filepath.Join(projectRoot, ".cursor", "rules", "style")
	target, err := os.Readlink(link)
	require.NoError(t, err)
	require.Equal(t, stored, target)
}

func TestSyncPreservesUserManagedMCPEntry(t *testing.T) {
	reg := newTestRegistry(t)
	state := resolvedState(t, nil)

	projectRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectRoot, ".cursor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectRoot, ".cursor", "mcp.json"), []byte(
		`{"mcpServers":{"hand-authored":{"command":"my-own-server"}}}`), 0o644))

	a := New()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	data, err := os.ReadFile(filepath.Join(projectRoot, ".cursor", "mcp.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	servers := doc["mcpServers"].(map[string]any)
	require.Contains(t, servers, "hand-authored")
}
