package gemini

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
	"github.com/stretchr/testify/require"
)

func TestSyncProjectsPromptAsTOML(t *testing.T) {
	reg := registry.New(t.TempDir())
	require.NoError(t, reg.EnsureDirs())

	src := filepath.Join(t.TempDir(), "greet.md")
	require.NoError(t, os.WriteFile(src, []byte("Say hi with \"flair\".\n"), 0o644))
	_, err := reg.Add(registry.Prompt, "greet", src, false)
	require.NoError(t, err)

	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Prompts: []string{"greet"}},
	}))
	state, err := scope.Resolve(paths, t.TempDir(), ToolID)
	require.NoError(t, err)

	a := New()
	projectRoot := t.TempDir()
	result, err := a.Sync(state, hawksync.Scope{Dir: projectRoot}, reg)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	data, err := os.ReadFile(filepath.Join(projectRoot, ".gemini", "commands", "greet.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "description")
	require.Contains(t, string(data), "Say hi")
}

func TestSyncSkipsHooksEntirely(t *testing.T) {
	reg := registry.New(t.TempDir())
	require.NoError(t, reg.EnsureDirs())
	src := filepath.Join(t.TempDir(), "notify.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/bash\n# hawk-hook: events=stop\n"), 0o644))
	_, err := reg.Add(registry.Hook, "notify", src, false)
	require.NoError(t, err)

	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"notify"}},
	}))
	state, err := scope.Resolve(paths, t.TempDir(), ToolID)
	require.NoError(t, err)

	a := New()
	result, err := a.Sync(state, hawksync.Scope{Dir: t.TempDir()}, reg)
	require.NoError(t, err)
	require.True(t, result.OK())
	require.NotEmpty(t, result.Skipped)
}
