package sync

import (
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
)

// Scope identifies which on-disk location a sync target projects into: the
// global scope (a tool's own home directory, e.g. ~/.claude) or a directory
// scope anchored at Dir (a project root).
type Scope struct {
	Dir    string
	Global bool
}

// Adapter is the protocol a host tool integration implements. Every method
// is read-only except Sync, which is the only place an adapter is allowed
// to mutate the tool's on-disk state.
type Adapter interface {
	// ToolID is the stable identifier used in configuration (e.g. "claude").
	ToolID() string

	// DisplayName is the human-readable name shown in CLI output.
	DisplayName() string

	// GlobalDir returns the tool's own home directory, e.g. "~/.claude".
	GlobalDir() (string, error)

	// ProjectMarker names the file or directory whose presence anchors a
	// project scope for this tool (e.g. ".cursor").
	ProjectMarker() string

	// CapabilityFingerprint summarizes which component types and which
	// per-event hook support level this adapter currently offers. It must
	// change whenever the adapter gains the ability to emit an artifact it
	// previously could only skip, so the sync cache invalidates correctly.
	CapabilityFingerprint() []byte

	// Destination returns the directory a component of type t is projected
	// into for sc.
	Destination(t registry.ComponentType, sc Scope) (string, error)

	// Sync projects state into sc's on-disk artifacts and returns a typed
	// result. It must preserve user-authored entries in any shared config
	// file it merges into (see the mcpmerge helpers).
	Sync(state scope.ResolvedState, sc Scope, reg *registry.Registry) (Result, error)
}
