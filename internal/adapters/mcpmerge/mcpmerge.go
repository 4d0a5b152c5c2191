// Package mcpmerge implements the ownership contract shared by every
// JSON-based host tool adapter that merges hawk-managed MCP server records
// into a tool's native config file (inline or sidecar): read the current
// document, strip the previously managed entries, compute the newly
// desired managed entries, and write user entries union new managed
// entries back out, erroring if a user-authored key collides with one
// hawk wants to manage.
package mcpmerge

import (
	"encoding/json"
	"os"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// ManagedMarker is stamped onto every server object hawk writes, so a later
// sync can tell a hawk-owned entry apart from one the user hand-edited.
const ManagedMarker = "__hawk_managed"

// ReadConfig reads a JSON document at path, tolerating a missing file as an
// empty object.
func ReadConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, hawkerr.Wrap("mcpmerge.ReadConfig", err)
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, hawkerr.Validationf("%s: malformed JSON: %v", path, err)
	}
	return doc, nil
}

// WriteConfig writes doc back to path atomically as indented JSON.
func WriteConfig(path string, doc map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return hawkerr.Wrap("mcpmerge.WriteConfig: marshal", err)
	}
	data = append(data, '\n')
	tmp := path + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("mcpmerge.WriteConfig: write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("mcpmerge.WriteConfig: rename", err)
	}
	return nil
}

// Merge replaces the managed subset of doc[serversKey] with desired: every
// value in desired is stamped with ManagedMarker and written; every entry
// under serversKey that already carries ManagedMarker but is absent from
// desired is dropped (unlinked); every entry without the marker is a
// user-authored entry and is preserved untouched, unless its key collides
// with a name in desired, which is a conflict error.
func Merge(doc map[string]any, serversKey string, desired map[string]map[string]any) (merged map[string]any, linked, unlinked []string, err error) {
	merged = cloneDoc(doc)

	var existing map[string]any
	if raw, ok := merged[serversKey]; ok {
		if m, ok := raw.(map[string]any); ok {
			existing = m
		}
	}

	out := map[string]any{}
	for name, entry := range existing {
		if !isManaged(entry) {
			if _, wants := desired[name]; wants {
				return nil, nil, nil, hawkerr.Conflictf(
					"%q is a user-authored entry under %q; hawk will not overwrite it", name, serversKey)
			}
			out[name] = entry
			continue
		}
		if _, stillWanted := desired[name]; !stillWanted {
			unlinked = append(unlinked, name)
		}
	}

	for name, spec := range desired {
		entry := map[string]any{}
		for k, v := range spec {
			entry[k] = v
		}
		entry[ManagedMarker] = true
		out[name] = entry
		linked = append(linked, name)
	}

	merged[serversKey] = out
	return merged, linked, unlinked, nil
}

// SyncFile performs the full read-merge-write cycle against path in one
// call, the shape every adapter's MCP sync step needs.
func SyncFile(path, serversKey string, desired map[string]map[string]any) (linked, unlinked []string, err error) {
	doc, err := ReadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	merged, linked, unlinked, err := Merge(doc, serversKey, desired)
	if err != nil {
		return nil, nil, err
	}
	if err := WriteConfig(path, merged); err != nil {
		return nil, nil, err
	}
	return linked, unlinked, nil
}

func isManaged(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	v, ok := m[ManagedMarker]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
