package registry

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// Add installs src (a file or directory) as (t, name), validating the name
// first. If replace is false and the entry already exists, it returns a
// ConflictError. The install is staged under a temp name beside the final
// destination and then renamed into place, so a crash mid-operation leaves
// either nothing (pre-state) or the complete payload (post-state), never a
// partial write.
func (r *Registry) Add(t ComponentType, name, src string, replace bool) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := r.EnsureDirs(); err != nil {
		return "", err
	}

	dest, err := r.destPath(t, name, src)
	if err != nil {
		return "", err
	}

	existed := false
	if _, statErr := os.Lstat(dest); statErr == nil {
		existed = true
		if !replace {
			return "", hawkerr.Conflictf("component %s/%s already exists", t, name)
		}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", hawkerr.Wrap("registry.Add: stat source", err)
	}

	stage := dest + ".hawk-stage"
	_ = os.RemoveAll(stage)
	if err := copyPath(src, stage, srcInfo); err != nil {
		_ = os.RemoveAll(stage)
		return "", hawkerr.Wrap("registry.Add: stage payload", err)
	}

	if !existed {
		if err := os.Rename(stage, dest); err != nil {
			_ = os.RemoveAll(stage)
			return "", hawkerr.Wrap("registry.Add: rename into place", err)
		}
		log.Printf("added %s/%s", t, name)
		return dest, nil
	}

	// Replace path: move the existing payload aside, swap in the staged
	// one, then delete the stash. On any failure, restore from stash so the
	// registry never observes neither-old-nor-new.
	stash := dest + ".hawk-stash"
	_ = os.RemoveAll(stash)
	if err := os.Rename(dest, stash); err != nil {
		_ = os.RemoveAll(stage)
		return "", hawkerr.Wrap("registry.Add: stash existing payload", err)
	}
	if err := os.Rename(stage, dest); err != nil {
		// restore prior state
		_ = os.Rename(stash, dest)
		_ = os.RemoveAll(stage)
		return "", hawkerr.Wrap("registry.Add: install replacement", err)
	}
	if err := os.RemoveAll(stash); err != nil {
		// Non-fatal: the new payload is live; stash just lingers for manual cleanup.
		log.Printf("warning: failed to clean up stash for %s/%s: %v", t, name, err)
	}
	log.Printf("replaced %s/%s", t, name)
	return dest, nil
}

// destPath mirrors GetPath but derives the extension for hooks from src
// (since a not-yet-added hook has no existing file to probe for).
func (r *Registry) destPath(t ComponentType, name, src string) (string, error) {
	switch t {
	case Hook:
		ext := hookExtensionFor(src)
		if ext == "" {
			return "", hawkerr.Validationf("unrecognized hook source extension: %s", src)
		}
		return filepath.Join(r.TypeDir(t), name+ext), nil
	default:
		return r.GetPath(t, name)
	}
}

func hookExtensionFor(src string) string {
	base := filepath.Base(src)
	for _, ext := range hookExtensions {
		if len(base) > len(ext) && base[len(base)-len(ext):] == ext {
			return ext
		}
	}
	return filepath.Ext(base)
}

func copyPath(src, dst string, info os.FileInfo) error {
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst, info.Mode())
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		info, err := e.Info()
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := copyDir(s, d); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(s, d, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
