// Package pkgindex tracks the provenance of bulk-installed components,
// with git/local/manual update routing and diff-against-upstream
// semantics.
package pkgindex

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:pkgindex")

// SourceKind is a package's provenance.
type SourceKind string

const (
	SourceGit    SourceKind = "git"
	SourceLocal  SourceKind = "local"
	SourceManual SourceKind = "manual"
)

// Item records one component a package owns, and its content hash at
// install/update time.
type Item struct {
	Type registry.ComponentType `yaml:"type"`
	Name string                 `yaml:"name"`
	Hash string                 `yaml:"hash"`
}

// Entry is one package's index record.
type Entry struct {
	Source    SourceKind `yaml:"source"`
	URL       string     `yaml:"url,omitempty"`
	Commit    string     `yaml:"commit,omitempty"`
	Path      string     `yaml:"path,omitempty"`
	Installed string     `yaml:"installed"`
	Items     []Item     `yaml:"items"`
}

// EffectiveSource reconciles a hand-edited entry: both url and path
// present is classified git; neither present (including a legacy
// url: "") is manual.
func (e Entry) EffectiveSource() SourceKind {
	if e.URL != "" {
		return SourceGit
	}
	if e.Path != "" {
		return SourceLocal
	}
	return SourceManual
}

// Index is the persisted packages.yaml map: package name -> Entry.
type Index struct {
	path    string
	entries map[string]Entry
}

// Load reads path, tolerating a missing file as an empty index.
func Load(path string) (*Index, error) {
	idx := &Index{path: path, entries: map[string]Entry{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, hawkerr.Wrap("pkgindex.Load", err)
	}
	if err := yaml.Unmarshal(data, &idx.entries); err != nil {
		return nil, hawkerr.Validationf("packages.yaml is malformed: %v", err)
	}
	if idx.entries == nil {
		idx.entries = map[string]Entry{}
	}
	return idx, nil
}

// Save writes the index back to its path as YAML, creating parent
// directories as needed. The write is staged-then-renamed so a concurrent
// reader never observes a partial file, only pre- or post-rename state.
func (idx *Index) Save() error {
	if err := os.MkdirAll(filepath.Dir(idx.path), 0o755); err != nil {
		return hawkerr.Wrap("pkgindex.Save", err)
	}
	data, err := yaml.Marshal(idx.entries)
	if err != nil {
		return hawkerr.Wrap("pkgindex.Save: marshal", err)
	}
	tmp := idx.path + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("pkgindex.Save: write", err)
	}
	if err := os.Rename(tmp, idx.path); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("pkgindex.Save: rename", err)
	}
	return nil
}

// Get returns a package's entry.
func (idx *Index) Get(name string) (Entry, bool) {
	e, ok := idx.entries[name]
	return e, ok
}

// Summary is a lightweight view used for listing.
type Summary struct {
	Name      string
	Source    SourceKind
	Installed string
	ItemCount int
}

// List returns every package, ordered by name.
func (idx *Index) List() []Summary {
	names := make([]string, 0, len(idx.entries))
	for n := range idx.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]Summary, 0, len(names))
	for _, n := range names {
		e := idx.entries[n]
		out = append(out, Summary{Name: n, Source: e.Source, Installed: e.Installed, ItemCount: len(e.Items)})
	}
	return out
}

// PackageFor reverse-looks-up which package owns (t, name), if any.
func (idx *Index) PackageFor(t registry.ComponentType, name string) (string, bool) {
	for pkgName, e := range idx.entries {
		for _, item := range e.Items {
			if item.Type == t && item.Name == name {
				return pkgName, true
			}
		}
	}
	return "", false
}

// Record writes or updates a package entry. If the package already exists
// with a different source *type* (git/local/manual), Record rejects the
// change: the user must explicitly Remove and re-import.
func (idx *Index) Record(name string, entry Entry) error {
	if existing, ok := idx.entries[name]; ok && existing.Source != entry.Source {
		return hawkerr.Validationf(
			"package %q has source %q, cannot change to %q without remove+reimport",
			name, existing.Source, entry.Source)
	}
	idx.entries[name] = entry
	log.Printf("recorded package %q (%s, %d items)", name, entry.Source, len(entry.Items))
	return nil
}

// Remove deletes the entry and returns the items it owned, so the caller
// can remove them from the registry. Removing an absent package is a
// validation error (unlike registry.Remove, which is idempotent) since
// there is no ambiguity to tolerate here — the caller asked to remove a
// specific named package.
func (idx *Index) Remove(name string) ([]Item, error) {
	e, ok := idx.entries[name]
	if !ok {
		return nil, hawkerr.Validationf("package %q not found", name)
	}
	delete(idx.entries, name)
	return e.Items, nil
}
