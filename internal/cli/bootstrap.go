// Package cli wires the core packages (registry, pkgindex, scope, sync)
// into the thin cobra command tree exposed by cmd/hawk. Per SPEC_FULL.md
// this layer has no invariants of its own: every command validates flags,
// calls straight into a core package, and renders the result.
package cli

import (
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/antigravity"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/claude"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/codex"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/cursor"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/gemini"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/adapters/opencode"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/pkgindex"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

// allAdapters is the fixed tool set every sync invocation dispatches
// across, in the order SPEC_FULL.md names them.
func allAdapters() []hawksync.Adapter {
	return []hawksync.Adapter{
		claude.New(),
		gemini.New(),
		codex.New(),
		cursor.New(),
		opencode.New(),
		antigravity.New(),
	}
}

// env bundles the core handles a command needs, resolved once per
// invocation against the global configuration root.
type env struct {
	paths config.Paths
	reg   *registry.Registry
	idx   *pkgindex.Index
}

func newEnv() (*env, error) {
	paths, err := config.ResolveGlobal()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	reg := registry.New(paths.RegistryDir())
	if err := reg.EnsureDirs(); err != nil {
		return nil, err
	}
	idx, err := pkgindex.Load(paths.PackagesFile())
	if err != nil {
		return nil, err
	}
	return &env{paths: paths, reg: reg, idx: idx}, nil
}

func (e *env) engine() *hawksync.Engine {
	return hawksync.New(e.paths, e.reg, allAdapters())
}
