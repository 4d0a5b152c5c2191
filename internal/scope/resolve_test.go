package scope

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/stretchr/testify/require"
)

func mustResolvePaths(t *testing.T, dir string) config.Paths {
	t.Helper()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	p, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirs())
	return p
}

func TestResolveUnionAcrossChain(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"a"}},
	}))

	project := t.TempDir()
	projects, err := config.LoadProjects(paths.ProjectsFile())
	require.NoError(t, err)
	require.NoError(t, projects.Register(project))
	require.NoError(t, projects.Save())

	require.NoError(t, os.MkdirAll(filepath.Join(project, ".hawk"), 0o755))
	require.NoError(t, config.SaveLayer(config.Local(project).ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"b", "a"}},
	}))

	state, err := Resolve(paths, project, "claude")
	require.NoError(t, err)
	require.True(t, state.ToolEnabled())
	require.Equal(t, []string{"a", "b"}, state.ComponentPlan(registry.Hook), "dedup preserves first occurrence")
}

func TestResolveExcludeThenExtra(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"a", "b"}},
		Tools: map[string]config.ToolOverride{
			"codex": {
				Hooks: config.TypeOverride{Exclude: []string{"a"}, Extra: []string{"c"}},
			},
		},
	}))

	state, err := Resolve(paths, globalRoot, "codex")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, state.ComponentPlan(registry.Hook))
}

func TestResolveDisabledTool(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	disabled := false
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Tools: map[string]config.ToolOverride{"codex": {Enabled: &disabled}},
	}))

	state, err := Resolve(paths, globalRoot, "codex")
	require.NoError(t, err)
	require.False(t, state.ToolEnabled())
	require.Empty(t, state.ComponentPlan(registry.Hook))
}

func TestResolveUnregisteredLocalFallback(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Skills: []string{"base"}},
	}))

	unregistered := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(unregistered, ".hawk"), 0o755))
	require.NoError(t, config.SaveLayer(config.Local(unregistered).ConfigFile(), config.Layer{
		Global: config.GlobalSection{Skills: []string{"local-only"}},
	}))

	state, err := Resolve(paths, unregistered, "claude")
	require.NoError(t, err)
	require.Equal(t, []string{"base", "local-only"}, state.ComponentPlan(registry.Skill))
}

func TestResolveEmptyLayerIsKeptButContributesNothing(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"a"}},
	}))

	project := t.TempDir()
	projects, err := config.LoadProjects(paths.ProjectsFile())
	require.NoError(t, err)
	require.NoError(t, projects.Register(project))
	require.NoError(t, projects.Save())
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".hawk"), 0o755))
	require.NoError(t, config.SaveLayer(config.Local(project).ConfigFile(), config.Layer{}))

	state, err := Resolve(paths, project, "claude")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, state.ComponentPlan(registry.Hook))
}

func TestResolveProfileOverlay(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ProfileFile("base"), config.Layer{
		Global: config.GlobalSection{Skills: []string{"from-profile"}},
	}))
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Profile: "base",
	}))

	state, err := Resolve(paths, globalRoot, "claude")
	require.NoError(t, err)
	require.Equal(t, []string{"from-profile"}, state.ComponentPlan(registry.Skill))
}

func TestResolveRejectsNestedProfileReference(t *testing.T) {
	globalRoot := t.TempDir()
	paths := mustResolvePaths(t, globalRoot)

	require.NoError(t, config.SaveLayer(paths.ProfileFile("base"), config.Layer{
		Profile: "other",
	}))
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Profile: "base",
	}))

	_, err := Resolve(paths, globalRoot, "claude")
	require.Error(t, err, "a profile that itself references a profile must be rejected, not silently flattened")
}
