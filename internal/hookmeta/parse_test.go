package hookmeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseScriptHeaderMultiEvent(t *testing.T) {
	p := writeTemp(t, "notify.py", "#!/usr/bin/env python3\n"+
		"# hawk-hook: events=stop,notification\n"+
		"# hawk-hook: description=Guard sensitive files\n"+
		"# hawk-hook: env=NTFY_TOPIC=\n"+
		"# hawk-hook: timeout=30\n"+
		"import sys\n")

	m := Parse(p)
	require.Equal(t, []string{"stop", "notification"}, m.Events)
	require.Equal(t, "Guard sensitive files", m.Description)
	require.Equal(t, []string{"NTFY_TOPIC="}, m.Env)
	require.Equal(t, 30, m.Timeout)
	require.False(t, m.IsInert())
}

func TestParseScriptHeaderStopsAtFirstCode(t *testing.T) {
	p := writeTemp(t, "a.sh", "#!/bin/bash\n"+
		"echo hi\n"+
		"# hawk-hook: events=stop\n") // after code: never reached

	m := Parse(p)
	require.True(t, m.IsInert())
}

func TestParseFrontmatterListForm(t *testing.T) {
	p := writeTemp(t, "a.md", "---\n"+
		"hawk-hook:\n"+
		"  events: [stop, notification]\n"+
		"  description: some context\n"+
		"---\n"+
		"# Body\n")

	m := Parse(p)
	require.Equal(t, []string{"stop", "notification"}, m.Events)
	require.Equal(t, "some context", m.Description)
}

func TestParseFrontmatterCommaScalarForm(t *testing.T) {
	p := writeTemp(t, "a.md", "---\n"+
		"hawk-hook:\n"+
		"  events: stop, notification\n"+
		"---\n")

	m := Parse(p)
	require.Equal(t, []string{"stop", "notification"}, m.Events)
}

func TestParseFrontmatterTruncatedIsSafe(t *testing.T) {
	p := writeTemp(t, "a.md", "---\nhawk-hook:\n  events:\n") // no closing ---

	m := Parse(p)
	require.True(t, m.IsInert())
}

func TestParseFrontmatterMalformedYamlIsSafe(t *testing.T) {
	p := writeTemp(t, "a.md", "---\nhawk-hook: [this is not\n---\n")

	m := Parse(p)
	require.True(t, m.IsInert())
}

func TestParseLegacyParentDirFallback(t *testing.T) {
	dir := t.TempDir()
	eventDir := filepath.Join(dir, "stop")
	require.NoError(t, os.MkdirAll(eventDir, 0o755))
	p := filepath.Join(eventDir, "cleanup.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/bash\necho done\n"), 0o644))

	m := Parse(p)
	require.Equal(t, []string{"stop"}, m.Events)
}

func TestParseUnreadableFileIsSafe(t *testing.T) {
	m := Parse(filepath.Join(t.TempDir(), "does-not-exist.py"))
	require.True(t, m.IsInert())
}

func TestParseDropsUnknownEventTokenButKeepsKnownOnes(t *testing.T) {
	p := writeTemp(t, "a.py", "# hawk-hook: events=stop,totally_made_up,notification\n")
	m := Parse(p)
	require.Equal(t, []string{"stop", "notification"}, m.Events)
}

func TestParseDedupesPreservingFirstOccurrence(t *testing.T) {
	p := writeTemp(t, "a.py", "# hawk-hook: events=stop,pre_tool,stop,pre_tool_use\n")
	m := Parse(p)
	require.Equal(t, []string{"stop", "pre_tool_use"}, m.Events)
}

func TestNormalizeEventAliases(t *testing.T) {
	canon, ok := NormalizeEvent("pre_tool")
	require.True(t, ok)
	require.Equal(t, "pre_tool_use", canon)

	_, ok = NormalizeEvent("not_a_real_event")
	require.False(t, ok)
}
