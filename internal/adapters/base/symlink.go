// Package base implements the linking and manifest logic shared by every
// host-tool adapter: ensuring a directory of symlinks matches a resolved
// component list while preserving any entry hawk does not own.
package base

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:adapters")

// manifestPath locates the manifest file an adapter uses to remember which
// artifacts of a given kind (a component type, or another namespacing
// string such as an ext-keyed generated-file kind) it manages in destDir.
func manifestPath(destDir, kind string) string {
	return filepath.Join(destDir, ".hawk-managed-"+kind+".json")
}

func readManifest(destDir, kind string) (map[string]bool, error) {
	data, err := os.ReadFile(manifestPath(destDir, kind))
	if os.IsNotExist(err) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, hawkerr.Wrap("base.readManifest", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return map[string]bool{}, nil // a corrupt manifest is treated as empty, not fatal
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

func writeManifest(destDir, kind string, names []string) error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	data, err := json.Marshal(sorted)
	if err != nil {
		return hawkerr.Wrap("base.writeManifest: marshal", err)
	}
	target := manifestPath(destDir, kind)
	tmp := target + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("base.writeManifest: write", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("base.writeManifest: rename", err)
	}
	return nil
}

// SyncSymlinks ensures destDir contains exactly one symlink per name in
// names, each pointing at the registry's payload for (t, name), removing
// any symlink this adapter previously managed (per its stored manifest)
// that is no longer desired. An entry occupying a desired symlink's path
// that this adapter does not already own, whether a symlink to something
// else or a regular file/directory, is a conflict, per the ownership
// contract: hawk never silently overwrites a user-authored entry.
func SyncSymlinks(destDir string, reg *registry.Registry, t registry.ComponentType, names []string) (sync.Result, error) {
	var result sync.Result

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, hawkerr.Wrap("base.SyncSymlinks", err)
	}

	previous, err := readManifest(destDir, string(t))
	if err != nil {
		return result, err
	}

	desired := make(map[string]bool, len(names))
	for _, n := range names {
		desired[n] = true
	}

	for _, name := range names {
		srcPath, err := reg.GetPath(t, name)
		if err != nil {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		linkPath := filepath.Join(destDir, name)

		info, lstatErr := os.Lstat(linkPath)
		switch {
		case os.IsNotExist(lstatErr):
			if err := os.Symlink(srcPath, linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
				continue
			}
			result.Linked = append(result.Linked, name)

		case lstatErr != nil:
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: lstatErr.Error()})

		case info.Mode()&os.ModeSymlink != 0:
			target, readErr := os.Readlink(linkPath)
			if readErr == nil && target == srcPath {
				continue // already correct, nothing to do
			}
			if !previous[name] {
				result.Errors = append(result.Errors, sync.Diagnostic{
					Target: name, Reason: "existing symlink is user-managed; refusing to overwrite"})
				continue
			}
			if err := os.Remove(linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
				continue
			}
			if err := os.Symlink(srcPath, linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
				continue
			}
			result.Linked = append(result.Linked, name)

		default:
			result.Errors = append(result.Errors, sync.Diagnostic{
				Target: name, Reason: "a non-symlink entry already occupies this path and is user-managed"})
		}
	}

	for name := range previous {
		if desired[name] {
			continue
		}
		linkPath := filepath.Join(destDir, name)
		if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		result.Unlinked = append(result.Unlinked, name)
	}

	if !result.OK() {
		log.Printf("%s: %d error(s) syncing symlinks, manifest left unchanged", destDir, len(result.Errors))
		return result, nil
	}

	if err := writeManifest(destDir, string(t), names); err != nil {
		return result, err
	}
	return result, nil
}
