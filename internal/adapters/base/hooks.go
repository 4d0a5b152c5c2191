package base

import (
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/runner"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

// EventSupport is how a host tool relates to one canonical event: it may
// fire it natively under its own name, fire it through a bridged/aliased
// mechanism, or not support it at all.
type EventSupport int

const (
	Native EventSupport = iota
	Bridged
	Unsupported
)

// SyncHooks materializes per-event runners for hookNames (delegating to the
// Runner Generator) and reports, per canonical event actually produced,
// whether this adapter's tool can make use of it. Unsupported events are
// reported as skipped rather than registered into the tool's settings
// file; this is non-fatal by design. The caller is responsible for editing
// the tool's native settings file to invoke the registered events.
func SyncHooks(runnersDir string, hookNames []string, reg *registry.Registry, env []runner.EnvVar, supported map[string]EventSupport) ([]string, sync.Result, error) {
	var result sync.Result

	events := runner.EventsSorted(hookNames, reg)
	if err := runner.Generate(hookNames, reg, runnersDir, env); err != nil {
		result.Errors = append(result.Errors, sync.Diagnostic{Target: runnersDir, Reason: err.Error()})
		return nil, result, nil
	}

	var registered []string
	for _, ev := range events {
		level, ok := supported[ev]
		if !ok || level == Unsupported {
			result.Skipped = append(result.Skipped, sync.Diagnostic{
				Target: ev, Reason: "event not supported by this tool"})
			continue
		}
		registered = append(registered, ev)
		result.Linked = append(result.Linked, ev)
	}
	return registered, result, nil
}

// SyncEventSymlinks exposes each of registered's runner scripts (produced by
// a prior SyncHooks call in runnersDir) as a "<event>.sh" symlink inside
// destDir. This is for host tools that discover hooks by scanning a
// directory rather than by reading a settings file, e.g. OpenCode. The
// ownership contract matches SyncSymlinks: a path this adapter did not
// previously manage is a conflict, never silently overwritten.
func SyncEventSymlinks(destDir, runnersDir string, registered []string) (sync.Result, error) {
	var result sync.Result

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, hawkerr.Wrap("base.SyncEventSymlinks", err)
	}

	const kind = "hook-links"
	previous, err := readManifest(destDir, kind)
	if err != nil {
		return result, err
	}

	desired := make(map[string]bool, len(registered))
	for _, ev := range registered {
		desired[ev] = true
	}

	for _, ev := range registered {
		srcPath := filepath.Join(runnersDir, ev+".sh")
		linkPath := filepath.Join(destDir, ev+".sh")

		info, lstatErr := os.Lstat(linkPath)
		switch {
		case os.IsNotExist(lstatErr):
			if err := os.Symlink(srcPath, linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: ev, Reason: err.Error()})
				continue
			}
			result.Linked = append(result.Linked, ev)

		case lstatErr != nil:
			result.Errors = append(result.Errors, sync.Diagnostic{Target: ev, Reason: lstatErr.Error()})

		case info.Mode()&os.ModeSymlink != 0:
			target, readErr := os.Readlink(linkPath)
			if readErr == nil && target == srcPath {
				continue
			}
			if !previous[ev] {
				result.Errors = append(result.Errors, sync.Diagnostic{
					Target: ev, Reason: "existing symlink is user-managed; refusing to overwrite"})
				continue
			}
			if err := os.Remove(linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: ev, Reason: err.Error()})
				continue
			}
			if err := os.Symlink(srcPath, linkPath); err != nil {
				result.Errors = append(result.Errors, sync.Diagnostic{Target: ev, Reason: err.Error()})
				continue
			}
			result.Linked = append(result.Linked, ev)

		default:
			result.Errors = append(result.Errors, sync.Diagnostic{
				Target: ev, Reason: "a non-symlink entry already occupies this path and is user-managed"})
		}
	}

	for ev := range previous {
		if desired[ev] {
			continue
		}
		linkPath := filepath.Join(destDir, ev+".sh")
		if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: ev, Reason: err.Error()})
			continue
		}
		result.Unlinked = append(result.Unlinked, ev)
	}

	if !result.OK() {
		log.Printf("%s: %d error(s) syncing hook symlinks, manifest left unchanged", destDir, len(result.Errors))
		return result, nil
	}

	if err := writeManifest(destDir, kind, registered); err != nil {
		return result, err
	}
	return result, nil
}
