// Package sync implements the sync engine: it resolves each enabled tool's
// desired component set, consults a capability-aware cache, and calls the
// matching Adapter to project that state into the tool's native on-disk
// configuration.
package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/config"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:sync")

// Engine owns the registry and the set of adapters it can dispatch to.
type Engine struct {
	Paths    config.Paths
	Registry *registry.Registry
	Adapters []Adapter
}

// New builds an Engine over the given adapters.
func New(paths config.Paths, reg *registry.Registry, adapters []Adapter) *Engine {
	return &Engine{Paths: paths, Registry: reg, Adapters: adapters}
}

// SyncGlobal syncs every enabled adapter's global scope.
func (e *Engine) SyncGlobal(force bool) (map[string]Result, error) {
	return e.run(e.Paths.Root(), e.Paths.SyncCacheDir(), Scope{Global: true}, force)
}

// Sync syncs every enabled adapter's directory scope anchored at cwd.
func (e *Engine) Sync(cwd string, force bool) (map[string]Result, error) {
	local := config.Local(cwd)
	return e.run(cwd, local.SyncCacheDir(), Scope{Dir: cwd}, force)
}

// SyncTool restricts Sync to a single tool_id, for CLI callers that want to
// target one adapter without running the full set.
func (e *Engine) SyncTool(cwd, toolID string, force bool) (Result, error) {
	for _, a := range e.Adapters {
		if a.ToolID() == toolID {
			one := &Engine{Paths: e.Paths, Registry: e.Registry, Adapters: []Adapter{a}}
			results, err := one.run(cwd, config.Local(cwd).SyncCacheDir(), Scope{Dir: cwd}, force)
			if err != nil {
				return Result{}, err
			}
			return results[toolID], nil
		}
	}
	return Result{}, fmt.Errorf("no adapter registered for tool %q", toolID)
}

// run is the control-flow loop shared by global and directory-scope syncs,
// per target:
//  1. skip if the tool is not enabled in the resolved config;
//  2. no-op if force is false and the cache entry matches both hashes;
//  3. call the adapter's Sync;
//  4. advance the cache only if the result carries no errors;
//  5. accumulate into the per-tool result map.
func (e *Engine) run(scopeDir, cacheDir string, sc Scope, force bool) (map[string]Result, error) {
	results := map[string]Result{}
	for _, a := range e.Adapters {
		state, err := scope.Resolve(e.Paths, scopeDir, a.ToolID())
		if err != nil {
			return nil, err
		}
		if !state.ToolEnabled() {
			log.Printf("skipping %s: disabled for %s", a.ToolID(), scopeDir)
			continue
		}

		desired, staleDiags := desiredHash(e.Registry, state)
		fingerprint := hex.EncodeToString(a.CapabilityFingerprint())
		key := CacheKey(scopeDir, a.ToolID())

		if !force {
			if entry, ok, err := loadCacheEntry(cacheDir, key); err != nil {
				return nil, err
			} else if ok && entry.DesiredHash == desired && entry.CapabilityFingerprint == fingerprint {
				results[a.ToolID()] = Result{}
				continue
			}
		}

		result, err := a.Sync(state, sc, e.Registry)
		if err != nil {
			result.Errors = append(result.Errors, Diagnostic{Target: a.ToolID(), Reason: err.Error()})
		}
		result.Skipped = append(result.Skipped, staleDiags...)

		if result.OK() {
			if err := saveCacheEntry(cacheDir, key, CacheEntry{DesiredHash: desired, CapabilityFingerprint: fingerprint}); err != nil {
				return nil, err
			}
		}
		results[a.ToolID()] = result
	}
	return results, nil
}

// desiredHash combines the resolved component names with their current
// registry content hashes, since names alone would miss an in-place content
// update and mtime/size alone is insufficient across re-downloads. A
// resolved name with no matching registry entry (a stale config reference)
// is reported as a skipped diagnostic rather than aborting the hash, the
// same tolerance the runner generator gives a stale hook name: one bad name
// must not fail sync for every other tool.
func desiredHash(reg *registry.Registry, state scope.ResolvedState) (string, []Diagnostic) {
	h := sha256.New()
	var skipped []Diagnostic
	for _, t := range registry.AllTypes {
		for _, name := range state.ComponentPlan(t) {
			contentHash, err := reg.GetHash(t, name)
			if err != nil {
				log.Printf("%s %q not found in registry, skipping", t, name)
				skipped = append(skipped, Diagnostic{Target: string(t) + "/" + name, Reason: err.Error()})
				continue
			}
			fmt.Fprintf(h, "%s\x00%s\x00%s\n", t, name, contentHash)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), skipped
}
