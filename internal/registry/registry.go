package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// Registry is a directory with one fixed subdirectory per ComponentType,
// rooted at "<config_dir>/registry/...".
type Registry struct {
	root string
}

// New opens (without creating) a registry rooted at root.
func New(root string) *Registry {
	return &Registry{root: root}
}

// Root returns the registry's filesystem root.
func (r *Registry) Root() string { return r.root }

// TypeDir returns the subdirectory for t, e.g. "<root>/hooks".
func (r *Registry) TypeDir(t ComponentType) string {
	return filepath.Join(r.root, string(t))
}

// EnsureDirs creates all five type subdirectories.
func (r *Registry) EnsureDirs() error {
	for _, t := range AllTypes {
		if err := os.MkdirAll(r.TypeDir(t), 0o755); err != nil {
			return hawkerr.Wrap("registry.EnsureDirs", err)
		}
	}
	return nil
}

// hookExtensions lists the on-disk suffixes a hook payload may carry, tried
// in this order when resolving a bare hook name to a file.
var hookExtensions = []string{".py", ".sh", ".js", ".ts", ".md", ".txt", ".stdout.md", ".stdout.txt"}

// GetPath resolves the on-disk payload path for (t, name). Skills may be a
// file or a directory and are looked up by bare name; hooks are looked up by
// trying each known extension; prompts/agents are "<name>.md"; mcp records
// are "<name>.yaml".
func (r *Registry) GetPath(t ComponentType, name string) (string, error) {
	dir := r.TypeDir(t)
	switch t {
	case Hook:
		for _, ext := range hookExtensions {
			p := filepath.Join(dir, name+ext)
			if _, err := os.Lstat(p); err == nil {
				return p, nil
			}
		}
		return "", hawkerr.Wrap("registry.GetPath", fmt.Errorf("hook %q not found", name))
	case Prompt, Agent:
		return filepath.Join(dir, name+".md"), nil
	case MCP:
		return filepath.Join(dir, name+".yaml"), nil
	default: // Skill: file or directory, bare name
		return filepath.Join(dir, name), nil
	}
}

// Exists reports whether (t, name) is present in the registry.
func (r *Registry) Exists(t ComponentType, name string) bool {
	p, err := r.GetPath(t, name)
	if err != nil {
		return false
	}
	_, err = os.Lstat(p)
	return err == nil
}

// List returns every component name of type t, lexicographically ordered.
func (r *Registry) List(t ComponentType) ([]string, error) {
	entries, err := os.ReadDir(r.TypeDir(t))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, hawkerr.Wrap("registry.List", err)
	}

	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		name := stripKnownExtension(t, e.Name())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func stripKnownExtension(t ComponentType, filename string) string {
	switch t {
	case Hook:
		for _, ext := range hookExtensions {
			if n := trimSuffix(filename, ext); n != "" {
				return n
			}
		}
		return ""
	case Prompt, Agent:
		return trimSuffix(filename, ".md")
	case MCP:
		return trimSuffix(filename, ".yaml")
	default:
		return filename
	}
}

func trimSuffix(s, suffix string) string {
	if len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return ""
}

// GetHash returns the content hash of the stored payload for (t, name).
func (r *Registry) GetHash(t ComponentType, name string) (string, error) {
	p, err := r.GetPath(t, name)
	if err != nil {
		return "", err
	}
	h, err := ContentHash(p)
	if err != nil {
		return "", hawkerr.Wrap("registry.GetHash", err)
	}
	return h, nil
}

// CheckClashes returns the subset of ids already present in the registry.
func (r *Registry) CheckClashes(ids []Identity) []Identity {
	var clashes []Identity
	for _, id := range ids {
		if r.Exists(id.Type, id.Name) {
			clashes = append(clashes, id)
		}
	}
	return clashes
}

// Remove deletes (t, name) if present. It is idempotent: removing an absent
// entry is success.
func (r *Registry) Remove(t ComponentType, name string) (bool, error) {
	p, err := r.GetPath(t, name)
	if err != nil {
		return false, nil // nothing resolvable to remove
	}
	if _, err := os.Lstat(p); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(p); err != nil {
		return false, hawkerr.Wrap("registry.Remove", err)
	}
	return true, nil
}
