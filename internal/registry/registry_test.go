package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	valid := []string{"a", "my-hook", "my_hook.py", "Hook123"}
	for _, n := range valid {
		require.NoErrorf(t, ValidateName(n), "expected %q to be valid", n)
	}

	invalid := []string{"", "..", ".", "a/b", "a\\b", "-leading-dash"}
	for _, n := range invalid {
		require.Errorf(t, ValidateName(n), "expected %q to be invalid", n)
	}
}

func TestAddListGetExistsRemove(t *testing.T) {
	root := t.TempDir()
	reg := New(root)

	src := filepath.Join(t.TempDir(), "notify.py")
	require.NoError(t, os.WriteFile(src, []byte("#!/usr/bin/env python3\nprint('hi')\n"), 0o644))

	dest, err := reg.Add(Hook, "notify", src, false)
	require.NoError(t, err)
	require.FileExists(t, dest)

	require.True(t, reg.Exists(Hook, "notify"))
	names, err := reg.List(Hook)
	require.NoError(t, err)
	require.Equal(t, []string{"notify"}, names)

	h, err := reg.GetHash(Hook, "notify")
	require.NoError(t, err)
	require.Len(t, h, 64)

	removed, err := reg.Remove(Hook, "notify")
	require.NoError(t, err)
	require.True(t, removed)
	require.False(t, reg.Exists(Hook, "notify"))

	// Idempotent remove of an absent entry is success.
	removed, err = reg.Remove(Hook, "notify")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestAddRejectsClashWithoutReplace(t *testing.T) {
	root := t.TempDir()
	reg := New(root)
	src := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(src, []byte("body"), 0o644))

	_, err := reg.Add(Prompt, "greeting", src, false)
	require.NoError(t, err)

	_, err = reg.Add(Prompt, "greeting", src, false)
	require.Error(t, err)
}

func TestAddReplacePreservesAtomicity(t *testing.T) {
	root := t.TempDir()
	reg := New(root)

	srcV1 := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(srcV1, []byte("v1"), 0o644))
	_, err := reg.Add(Prompt, "greeting", srcV1, false)
	require.NoError(t, err)

	srcV2 := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(srcV2, []byte("v2"), 0o644))
	dest, err := reg.Add(Prompt, "greeting", srcV2, true)
	require.NoError(t, err)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "v2", string(content))

	// No stash/stage leftovers.
	entries, err := os.ReadDir(reg.TypeDir(Prompt))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAddDirectoryComponent(t *testing.T) {
	root := t.TempDir()
	reg := New(root)

	srcDir := filepath.Join(t.TempDir(), "my-skill")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "SKILL.md"), []byte("skill"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "sub", "helper.py"), []byte("code"), 0o644))

	dest, err := reg.Add(Skill, "my-skill", srcDir, false)
	require.NoError(t, err)
	require.DirExists(t, dest)
	require.FileExists(t, filepath.Join(dest, "sub", "helper.py"))

	h, err := reg.GetHash(Skill, "my-skill")
	require.NoError(t, err)
	require.Len(t, h, 64)
}

func TestContentHashDeterministicAcrossDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	h1, err := ContentHash(dir)
	require.NoError(t, err)

	// Rewriting in a different creation order must not change the hash,
	// since hashing sorts by relpath rather than relying on directory
	// iteration order.
	dir2 := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir2, "b.txt"), []byte("b"), 0o644))
	h2, err := ContentHash(dir2)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
}

func TestCheckClashes(t *testing.T) {
	root := t.TempDir()
	reg := New(root)
	src := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	_, err := reg.Add(Prompt, "greeting", src, false)
	require.NoError(t, err)

	clashes := reg.CheckClashes([]Identity{
		{Type: Prompt, Name: "greeting"},
		{Type: Prompt, Name: "farewell"},
	})
	require.Equal(t, []Identity{{Type: Prompt, Name: "greeting"}}, clashes)
}

func TestDisplayHash(t *testing.T) {
	require.Equal(t, "abcd1234", DisplayHash("abcd1234ef567890"))
	require.Equal(t, "short", DisplayHash("short"))
}
