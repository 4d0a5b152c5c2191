package mcpmerge

import (
	"path/filepath"
	"testing"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/stretchr/testify/require"
)

func TestMergeAddsManagedMarker(t *testing.T) {
	merged, linked, unlinked, err := Merge(map[string]any{}, "mcpServers", map[string]map[string]any{
		"search": {"command": "search-mcp"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"search"}, linked)
	require.Empty(t, unlinked)

	servers := merged["mcpServers"].(map[string]any)
	entry := servers["search"].(map[string]any)
	require.Equal(t, true, entry[ManagedMarker])
	require.Equal(t, "search-mcp", entry["command"])
}

func TestMergePreservesUserEntries(t *testing.T) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			"my-custom": map[string]any{"command": "whatever"},
		},
	}
	merged, _, _, err := Merge(doc, "mcpServers", map[string]map[string]any{
		"search": {"command": "search-mcp"},
	})
	require.NoError(t, err)

	servers := merged["mcpServers"].(map[string]any)
	require.Contains(t, servers, "my-custom")
	require.Contains(t, servers, "search")
	custom := servers["my-custom"].(map[string]any)
	require.NotContains(t, custom, ManagedMarker)
}

func TestMergeUnlinksStaleManagedEntries(t *testing.T) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			"old": map[string]any{"command": "old-mcp", ManagedMarker: true},
		},
	}
	merged, linked, unlinked, err := Merge(doc, "mcpServers", map[string]map[string]any{
		"new": {"command": "new-mcp"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"new"}, linked)
	require.Equal(t, []string{"old"}, unlinked)

	servers := merged["mcpServers"].(map[string]any)
	require.NotContains(t, servers, "old")
	require.Contains(t, servers, "new")
}

func TestMergeCollisionWithUserEntryIsConflict(t *testing.T) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			"search": map[string]any{"command": "users-own-search"},
		},
	}
	_, _, _, err := Merge(doc, "mcpServers", map[string]map[string]any{
		"search": {"command": "search-mcp"},
	})
	require.Error(t, err)
	require.True(t, hawkerr.IsConflict(err))
}

func TestSyncFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	linked, unlinked, err := SyncFile(path, "mcpServers", map[string]map[string]any{
		"search": {"command": "search-mcp"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"search"}, linked)
	require.Empty(t, unlinked)

	doc, err := ReadConfig(path)
	require.NoError(t, err)
	require.Contains(t, doc["mcpServers"].(map[string]any), "search")
}

func TestReadConfigMissingFileIsEmpty(t *testing.T) {
	doc, err := ReadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Empty(t, doc)
}
