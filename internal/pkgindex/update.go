package pkgindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/gitfetch"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
)

// ItemStatus is the diff outcome for one candidate item.
type ItemStatus string

const (
	StatusUnchanged      ItemStatus = "unchanged"
	StatusUpdated        ItemStatus = "updated"
	StatusAdded          ItemStatus = "added"
	StatusPruneCandidate ItemStatus = "prune_candidate"
	StatusPruned         ItemStatus = "pruned"
)

// ItemResult is one line of an UpdateReport.
type ItemResult struct {
	Type   registry.ComponentType
	Name   string
	Status ItemStatus
}

// UpdateReport is the outcome of updating a single package.
type UpdateReport struct {
	Package string
	Skipped bool // true for "manual" packages, or an unchanged git HEAD without --force
	Reason  string
	Items   []ItemResult
}

// UpdateOptions configures a single package update.
type UpdateOptions struct {
	Force   bool
	Prune   bool
	Fetcher gitfetch.Fetcher
	// Now returns the ISO date string to stamp on a successful update;
	// exists so tests can supply a fixed clock.
	Now func() string
}

func (o UpdateOptions) fetcher() gitfetch.Fetcher {
	if o.Fetcher != nil {
		return o.Fetcher
	}
	return gitfetch.CommandFetcher{}
}

// Update routes a single package's update by its effective source and
// applies the diff to reg.
func (idx *Index) Update(ctx context.Context, reg *registry.Registry, name string, opts UpdateOptions) (*UpdateReport, error) {
	entry, ok := idx.entries[name]
	if !ok {
		return nil, hawkerr.Validationf("package %q not found", name)
	}

	switch entry.EffectiveSource() {
	case SourceManual:
		return &UpdateReport{Package: name, Skipped: true, Reason: "manual packages cannot be updated"}, nil
	case SourceLocal:
		return idx.updateFromDir(reg, name, entry, entry.Path, opts)
	default: // git
		return idx.updateFromGit(ctx, reg, name, entry, opts)
	}
}

func (idx *Index) updateFromGit(ctx context.Context, reg *registry.Registry, name string, entry Entry, opts UpdateOptions) (*UpdateReport, error) {
	clone, err := os.MkdirTemp("", "hawk-pkg-update-*")
	if err != nil {
		return nil, hawkerr.Wrap("pkgindex.Update", err)
	}
	defer os.RemoveAll(clone)

	dir := filepath.Join(clone, "repo")
	commit, err := opts.fetcher().ShallowClone(ctx, entry.URL, "", dir)
	if err != nil {
		return nil, err
	}

	if commit == entry.Commit && !opts.Force {
		return &UpdateReport{Package: name, Skipped: true, Reason: "upstream HEAD unchanged"}, nil
	}

	report, newItems, err := diffAndApply(reg, entry.Items, dir, opts.Prune)
	if err != nil {
		return nil, err
	}

	entry.Commit = commit
	entry.Items = newItems
	if opts.Now != nil {
		entry.Installed = opts.Now()
	}
	idx.entries[name] = entry

	return &UpdateReport{Package: name, Items: report}, nil
}

// ImportGit clones url at ref into a temp directory, installs every
// component it finds into reg, and records a new git-sourced package
// entry. It rejects a name that already exists; use Update to refresh one.
func (idx *Index) ImportGit(ctx context.Context, reg *registry.Registry, name, url, ref string, opts UpdateOptions) (*UpdateReport, error) {
	if _, exists := idx.entries[name]; exists {
		return nil, hawkerr.Validationf("package %q already exists", name)
	}

	clone, err := os.MkdirTemp("", "hawk-pkg-import-*")
	if err != nil {
		return nil, hawkerr.Wrap("pkgindex.ImportGit", err)
	}
	defer os.RemoveAll(clone)

	dir := filepath.Join(clone, "repo")
	commit, err := opts.fetcher().ShallowClone(ctx, url, ref, dir)
	if err != nil {
		return nil, err
	}

	report, newItems, err := diffAndApply(reg, nil, dir, false)
	if err != nil {
		return nil, err
	}

	entry := Entry{Source: SourceGit, URL: url, Commit: commit, Items: newItems}
	if opts.Now != nil {
		entry.Installed = opts.Now()
	}
	idx.entries[name] = entry

	return &UpdateReport{Package: name, Items: report}, nil
}

// ImportLocal installs every component found under dir (laid out like the
// registry's own type subdirectories) into reg, and records a new
// local-sourced package entry pinned to dir.
func (idx *Index) ImportLocal(reg *registry.Registry, name, dir string, opts UpdateOptions) (*UpdateReport, error) {
	if _, exists := idx.entries[name]; exists {
		return nil, hawkerr.Validationf("package %q already exists", name)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, hawkerr.Validationf("package %q local path %q is missing: %v", name, dir, err)
	}

	report, newItems, err := diffAndApply(reg, nil, dir, false)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, hawkerr.Wrap("pkgindex.ImportLocal", err)
	}
	entry := Entry{Source: SourceLocal, Path: abs, Items: newItems}
	if opts.Now != nil {
		entry.Installed = opts.Now()
	}
	idx.entries[name] = entry

	return &UpdateReport{Package: name, Items: report}, nil
}

func (idx *Index) updateFromDir(reg *registry.Registry, name string, entry Entry, dir string, opts UpdateOptions) (*UpdateReport, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, hawkerr.Validationf("package %q local path %q is missing: %v", name, dir, err)
	}

	report, newItems, err := diffAndApply(reg, entry.Items, dir, opts.Prune)
	if err != nil {
		return nil, err
	}

	entry.Items = newItems
	if opts.Now != nil {
		entry.Installed = opts.Now()
	}
	idx.entries[name] = entry

	return &UpdateReport{Package: name, Items: report}, nil
}

// diffAndApply compares the previously-recorded items against the upstream
// source tree rooted at srcDir (laid out identically to the registry: one
// subdirectory per component type), applying add/replace/prune to reg.
func diffAndApply(reg *registry.Registry, prevItems []Item, srcDir string, prune bool) ([]ItemResult, []Item, error) {
	upstream, err := scanPackageDir(srcDir)
	if err != nil {
		return nil, nil, err
	}

	prevByID := make(map[registry.Identity]Item, len(prevItems))
	for _, it := range prevItems {
		prevByID[registry.Identity{Type: it.Type, Name: it.Name}] = it
	}

	var results []ItemResult
	var newItems []Item

	for id, srcPath := range upstream {
		newHash, err := registry.ContentHash(srcPath)
		if err != nil {
			return nil, nil, hawkerr.Wrap("pkgindex.diff: hash upstream item", err)
		}

		prev, wasPresent := prevByID[id]
		switch {
		case wasPresent && prev.Hash == newHash:
			results = append(results, ItemResult{Type: id.Type, Name: id.Name, Status: StatusUnchanged})
			newItems = append(newItems, prev)
		case wasPresent:
			if _, err := reg.Add(id.Type, id.Name, srcPath, true); err != nil {
				return nil, nil, err
			}
			results = append(results, ItemResult{Type: id.Type, Name: id.Name, Status: StatusUpdated})
			newItems = append(newItems, Item{Type: id.Type, Name: id.Name, Hash: newHash})
		default:
			if _, err := reg.Add(id.Type, id.Name, srcPath, false); err != nil {
				return nil, nil, err
			}
			results = append(results, ItemResult{Type: id.Type, Name: id.Name, Status: StatusAdded})
			newItems = append(newItems, Item{Type: id.Type, Name: id.Name, Hash: newHash})
		}
	}

	for id, prev := range prevByID {
		if _, stillUpstream := upstream[id]; stillUpstream {
			continue
		}
		if prune {
			if _, err := reg.Remove(id.Type, id.Name); err != nil {
				return nil, nil, err
			}
			results = append(results, ItemResult{Type: id.Type, Name: id.Name, Status: StatusPruned})
			continue
		}
		results = append(results, ItemResult{Type: id.Type, Name: id.Name, Status: StatusPruneCandidate})
		newItems = append(newItems, prev) // kept until an explicit --prune
	}

	return results, newItems, nil
}

// scanPackageDir walks a package source tree laid out like the registry
// itself (skills/, hooks/, prompts/, agents/, mcp/ subdirectories) and
// returns every component it finds, keyed by identity.
func scanPackageDir(root string) (map[registry.Identity]string, error) {
	out := map[registry.Identity]string{}
	for _, t := range registry.AllTypes {
		typeDir := filepath.Join(root, string(t))
		entries, err := os.ReadDir(typeDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, hawkerr.Wrap(fmt.Sprintf("pkgindex.scan: %s", typeDir), err)
		}
		seen := map[string]bool{}
		for _, e := range entries {
			name := componentNameFromFilename(t, e.Name())
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out[registry.Identity{Type: t, Name: name}] = filepath.Join(typeDir, e.Name())
		}
	}
	return out, nil
}

func componentNameFromFilename(t registry.ComponentType, filename string) string {
	switch t {
	case registry.Prompt, registry.Agent:
		return trimSuffixIfPresent(filename, ".md")
	case registry.MCP:
		return trimSuffixIfPresent(filename, ".yaml")
	case registry.Hook:
		for _, ext := range []string{".py", ".sh", ".js", ".ts", ".stdout.md", ".stdout.txt", ".md", ".txt"} {
			if n := trimSuffixIfPresent(filename, ext); n != "" {
				return n
			}
		}
		return ""
	default: // skill: bare name, file or directory
		return filename
	}
}

func trimSuffixIfPresent(s, suffix string) string {
	if len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return ""
}
