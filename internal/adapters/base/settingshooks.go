package base

import (
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/mcpmerge"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

// SyncJSONHooks registers events into a Claude-style JSON settings file
// under settingsKey (e.g. "hooks"), one entry per native event name, each
// pointing at runnersDir/<event>.sh. It reuses mcpmerge's managed-marker
// merge logic, keyed by native event name instead of server name, since
// the ownership contract (preserve user entries, mark managed ones,
// collision is an error) is identical.
func SyncJSONHooks(settingsPath, settingsKey string, runnersDir string, nativeNames map[string]string) (sync.Result, error) {
	var result sync.Result

	desired := make(map[string]map[string]any, len(nativeNames))
	for event, native := range nativeNames {
		runnerPath := filepath.Join(runnersDir, event+".sh")
		desired[native] = map[string]any{
			"matcher": "*",
			"hooks": []any{
				map[string]any{"type": "command", "command": runnerPath},
			},
		}
	}

	doc, err := mcpmerge.ReadConfig(settingsPath)
	if err != nil {
		return result, err
	}
	merged, linked, unlinked, err := mcpmerge.Merge(doc, settingsKey, desired)
	if err != nil {
		if hawkerr.IsConflict(err) {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: settingsKey, Reason: err.Error()})
			return result, nil
		}
		return result, err
	}
	if err := mcpmerge.WriteConfig(settingsPath, merged); err != nil {
		return result, err
	}
	result.Linked = linked
	result.Unlinked = unlinked
	return result, nil
}
