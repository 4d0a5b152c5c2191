package mcpdef

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProbeTimeout bounds how long Probe waits for a server to answer the
// initial handshake and a tools/list call.
const ProbeTimeout = 10 * time.Second

// ProbeResult is the outcome of a liveness probe against one server.
type ProbeResult struct {
	Reachable bool
	ToolCount int
	Err       error
}

// Probe connects to the server described by s and calls ListTools, the
// cheapest request every MCP server must answer. It is used by `hawk mcp
// inspect` to report a server as live, and best-effort by adapters before
// merging a server record: a failed probe there is a diagnostic, never a
// reason to refuse the merge, since the target tool may itself run the
// server in an environment this process cannot reach (docker, remote URL
// behind auth the probing machine lacks, etc).
func Probe(ctx context.Context, s ServerSpec) ProbeResult {
	transport, err := newTransport(s)
	if err != nil {
		return ProbeResult{Err: err}
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "hawk-mcp-probe",
		Version: "1.0.0",
	}, nil)

	connectCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		return ProbeResult{Err: fmt.Errorf("connect: %w", err)}
	}
	defer session.Close()

	result, err := session.ListTools(connectCtx, &mcp.ListToolsParams{})
	if err != nil {
		return ProbeResult{Reachable: true, Err: fmt.Errorf("tools/list: %w", err)}
	}

	return ProbeResult{Reachable: true, ToolCount: len(result.Tools)}
}

func newTransport(s ServerSpec) (mcp.Transport, error) {
	switch s.Transport {
	case HTTP:
		if s.URL == "" {
			return nil, fmt.Errorf("http transport requires a url")
		}
		return &mcp.SSEClientTransport{Endpoint: s.URL}, nil
	default:
		if s.Command == "" {
			return nil, fmt.Errorf("stdio transport requires a command")
		}
		cmd := exec.Command(s.Command, s.Args...)
		if len(s.Env) > 0 {
			cmd.Env = append(cmd.Environ(), envPairs(s.Env)...)
		}
		return &mcp.CommandTransport{Command: cmd}, nil
	}
}

func envPairs(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
