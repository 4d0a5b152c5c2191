package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// Projects is the global "projects.yaml" index of registered directories.
type Projects struct {
	path  string
	Dirs  []string `yaml:"projects"`
	dirSet map[string]bool
}

// LoadProjects reads the registered-directories index, tolerating a
// missing file as an empty index.
func LoadProjects(path string) (*Projects, error) {
	p := &Projects{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		p.dirSet = map[string]bool{}
		return p, nil
	}
	if err != nil {
		return nil, hawkerr.Wrap("config.LoadProjects", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, hawkerr.Validationf("projects.yaml is malformed: %v", err)
	}
	p.reindex()
	return p, nil
}

func (p *Projects) reindex() {
	p.dirSet = make(map[string]bool, len(p.Dirs))
	for _, d := range p.Dirs {
		p.dirSet[d] = true
	}
}

// Save writes the index back atomically.
func (p *Projects) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return hawkerr.Wrap("config.Projects.Save", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return hawkerr.Wrap("config.Projects.Save: marshal", err)
	}
	tmp := p.path + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("config.Projects.Save: write", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("config.Projects.Save: rename", err)
	}
	return nil
}

// Register adds dir (normalized to an absolute, clean path) to the index.
// It is idempotent.
func (p *Projects) Register(dir string) error {
	abs, err := normalizeDir(dir)
	if err != nil {
		return err
	}
	if p.dirSet[abs] {
		return nil
	}
	p.Dirs = append(p.Dirs, abs)
	sort.Strings(p.Dirs)
	p.reindex()
	return nil
}

// Unregister removes dir from the index. Idempotent.
func (p *Projects) Unregister(dir string) error {
	abs, err := normalizeDir(dir)
	if err != nil {
		return err
	}
	if !p.dirSet[abs] {
		return nil
	}
	out := p.Dirs[:0]
	for _, d := range p.Dirs {
		if d != abs {
			out = append(out, d)
		}
	}
	p.Dirs = out
	p.reindex()
	return nil
}

// IsRegistered reports whether dir is exactly a registered directory (not
// merely a descendant of one).
func (p *Projects) IsRegistered(dir string) bool {
	abs, err := normalizeDir(dir)
	if err != nil {
		return false
	}
	return p.dirSet[abs]
}

// AncestorsOf returns every registered directory that is an ancestor of
// (or equal to) cwd, ordered shallowest-first.
func (p *Projects) AncestorsOf(cwd string) ([]string, error) {
	abs, err := normalizeDir(cwd)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, d := range p.Dirs {
		if isAncestorOrSelf(d, abs) {
			matches = append(matches, d)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return len(matches[i]) < len(matches[j])
	})
	return matches, nil
}

func isAncestorOrSelf(ancestor, dir string) bool {
	if ancestor == dir {
		return true
	}
	rel, err := filepath.Rel(ancestor, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func normalizeDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", hawkerr.Wrap("config.normalizeDir", err)
	}
	return filepath.Clean(abs), nil
}
