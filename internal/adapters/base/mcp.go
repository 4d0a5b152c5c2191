package base

import (
	"context"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/mcpdef"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
)

// DesiredMCPServers loads every MCP server record named in mcpNames and
// renders it to the shape the host tool's settings file expects via
// ServerSpec.AsJSON. A record that fails to load is reported as an error
// diagnostic and excluded from the result rather than aborting the whole
// sync.
//
// Each record that loads is also probed, best-effort: a failed probe is
// reported as a skipped diagnostic, never an error, since the probing
// machine may simply lack what the target tool has (a container runtime,
// network access to a gated URL, credentials only the host tool's own
// environment carries). The server is still merged in either way — Probe
// exists to surface a warning, not to gate the sync.
func DesiredMCPServers(ctx context.Context, reg *registry.Registry, mcpNames []string) (map[string]map[string]any, sync.Result) {
	var result sync.Result
	desired := make(map[string]map[string]any, len(mcpNames))

	for _, name := range mcpNames {
		specPath, err := reg.GetPath(registry.MCP, name)
		if err != nil {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		spec, err := mcpdef.Load(specPath)
		if err != nil {
			result.Errors = append(result.Errors, sync.Diagnostic{Target: name, Reason: err.Error()})
			continue
		}
		desired[name] = spec.AsJSON()

		probe := mcpdef.Probe(ctx, spec)
		if probe.Err != nil {
			result.Skipped = append(result.Skipped, sync.Diagnostic{
				Target: name, Reason: "liveness probe failed: " + probe.Err.Error()})
		}
	}

	return desired, result
}
