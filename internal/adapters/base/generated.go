package base

import (
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

// SyncGeneratedFiles ensures destDir contains exactly one "<name><ext>"
// file per entry in desired, with that entry's string as its content,
// removing any file this adapter previously generated (per kind's stored
// manifest) that is no longer desired. kind namespaces the manifest so
// multiple generated-file sets (e.g. TOML prompts and TOML agents) can
// coexist in the same directory without colliding. A path occupied by a
// file this adapter did not itself generate last time is a conflict,
// mirroring SyncSymlinks' ownership contract.
func SyncGeneratedFiles(destDir, kind, ext string, desired map[string]string) (sync.Result, error) {
	var result sync.Result

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, hawkerr.Wrap("base.SyncGeneratedFiles", err)
	}

	previous, err := readManifest(destDir, kind)
	if err != nil {
		return result, err
	}

	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}

	for name, content := range desired {
		target := filepath.Join(destDir, name+ext)
		if _, err := os.Lstat(target); err == nil && !previous[name] {
			result.Errors = append(result.Errors, sync.Diagnostic{
				Target: name, Reason: "existing file is user-managed; refusing to overwrite"})
			continue
		}
		tmp := target + ".hawk-stage"
		if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		if err := os.Rename(tmp, target); err != nil {
			_ = os.Remove(tmp)
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		result.Linked = append(result.Linked, name)
	}

	for name := range previous {
		if _, stillWanted := desired[name]; stillWanted {
			continue
		}
		target := filepath.Join(destDir, name+ext)
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		result.Unlinked = append(result.Unlinked, name)
	}

	if !result.OK() {
		log.Printf("%s: %d error(s) syncing generated files, manifest left unchanged", destDir, len(result.Errors))
		return result, nil
	}

	if err := writeManifest(destDir, kind, names); err != nil {
		return result, err
	}
	return result, nil
}
