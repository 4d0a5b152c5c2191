package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	"github.com/stretchr/testify/require"
)

// fakeAdapter counts how many times Sync is actually invoked, so tests can
// assert the cache short-circuits a no-op target.
type fakeAdapter struct {
	id          string
	fingerprint byte
	calls       int
	nextResult  Result
	nextErr     error
}

func (f *fakeAdapter) ToolID() string      { return f.id }
func (f *fakeAdapter) DisplayName() string { return f.id }
func (f *fakeAdapter) GlobalDir() (string, error) {
	return "", nil
}
func (f *fakeAdapter) ProjectMarker() string             { return "." + f.id }
func (f *fakeAdapter) CapabilityFingerprint() []byte     { return []byte{f.fingerprint} }
func (f *fakeAdapter) Destination(registry.ComponentType, Scope) (string, error) {
	return "", nil
}
func (f *fakeAdapter) Sync(scope.ResolvedState, Scope, *registry.Registry) (Result, error) {
	f.calls++
	return f.nextResult, f.nextErr
}

func newTestEnv(t *testing.T) (config.Paths, *registry.Registry) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HAWK_CONFIG_DIR", dir)
	paths, err := config.ResolveGlobal()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirs())

	reg := registry.New(paths.RegistryDir())
	require.NoError(t, reg.EnsureDirs())
	return paths, reg
}

func enableTool(t *testing.T, paths config.Paths, tool string) {
	t.Helper()
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Global: config.GlobalSection{Hooks: []string{"notify"}},
	}))
	_ = tool
}

func addHook(t *testing.T, reg *registry.Registry, name string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), name+".sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/bash\n# hawk-hook: events=stop\n"), 0o644))
	_, err := reg.Add(registry.Hook, name, src, false)
	require.NoError(t, err)
}

func TestSyncCallsAdapterOnFirstRun(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	addHook(t, reg, "notify")

	a := &fakeAdapter{id: "claude"}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	results, err := eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 1, a.calls)
	require.Contains(t, results, "claude")
}

func TestSyncIsNoOpWhenCacheMatches(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	addHook(t, reg, "notify")

	a := &fakeAdapter{id: "claude"}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	_, err := eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 1, a.calls)

	_, err = eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 1, a.calls, "second sync with unchanged desired state and fingerprint must not re-invoke the adapter")
}

func TestSyncForceBypassesCache(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	addHook(t, reg, "notify")

	a := &fakeAdapter{id: "claude"}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	_, err := eng.Sync(project, false)
	require.NoError(t, err)
	_, err = eng.Sync(project, true)
	require.NoError(t, err)
	require.Equal(t, 2, a.calls)
}

func TestSyncSkipsDisabledTool(t *testing.T) {
	paths, reg := newTestEnv(t)
	disabled := false
	require.NoError(t, config.SaveLayer(paths.ConfigFile(), config.Layer{
		Tools: map[string]config.ToolOverride{"claude": {Enabled: &disabled}},
	}))

	a := &fakeAdapter{id: "claude"}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	results, err := eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 0, a.calls)
	require.NotContains(t, results, "claude")
}

func TestSyncErrorPreventsCacheAdvance(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	addHook(t, reg, "notify")

	a := &fakeAdapter{id: "claude", nextResult: Result{Errors: []Diagnostic{{Target: "x", Reason: "boom"}}}}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	results, err := eng.Sync(project, false)
	require.NoError(t, err)
	require.False(t, results["claude"].OK())
	require.Equal(t, 1, a.calls)

	// Cache must not have advanced: a second sync (still not force) must
	// call the adapter again since nothing was recorded as in-sync.
	_, err = eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 2, a.calls)
}

func TestSyncCapabilityUpgradeInvalidatesCache(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	addHook(t, reg, "notify")

	a := &fakeAdapter{id: "claude", fingerprint: 1}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	_, err := eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 1, a.calls)

	a.fingerprint = 2
	_, err = eng.Sync(project, false)
	require.NoError(t, err)
	require.Equal(t, 2, a.calls, "a changed capability fingerprint must invalidate the cache entry")
}

func TestSyncToleratesStaleComponentReference(t *testing.T) {
	paths, reg := newTestEnv(t)
	enableTool(t, paths, "claude")
	// Deliberately do not addHook: "notify" is resolved but absent from the
	// registry, modeling a stale config reference to a removed component.

	a := &fakeAdapter{id: "claude"}
	eng := New(paths, reg, []Adapter{a})

	project := t.TempDir()
	results, err := eng.Sync(project, false)
	require.NoError(t, err, "a single stale component name must not abort the whole sync")
	require.Equal(t, 1, a.calls, "the adapter must still run despite the stale reference")
	require.True(t, results["claude"].OK())
	require.NotEmpty(t, results["claude"].Skipped, "the stale reference is reported as a skipped diagnostic")
}

func TestResultOKIsTrueForSkippedOnly(t *testing.T) {
	r := Result{Skipped: []Diagnostic{{Target: "hooks/x", Reason: "unsupported event"}}}
	require.True(t, r.OK())
}

func TestResultOKIsFalseWithErrors(t *testing.T) {
	r := Result{Errors: []Diagnostic{{Target: "hooks/x", Reason: "conflict"}}}
	require.False(t, r.OK())
}

func TestCacheKeyDiffersByTool(t *testing.T) {
	require.NotEqual(t, CacheKey("/a", "claude"), CacheKey("/a", "gemini"))
}

func TestCacheKeyDiffersByPath(t *testing.T) {
	require.NotEqual(t, CacheKey("/a", "claude"), CacheKey("/b", "claude"))
}
