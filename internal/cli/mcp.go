package cli

import (
	"fmt"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/mcpdef"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/spf13/cobra"
)

// NewMCPCommand groups diagnostics for MCP server records. It never mutates
// anything. "inspect" starts the server process and lists its tools; sync
// never calls it, although adapters do run a best-effort mcpdef.Probe of
// each server record (which also starts a stdio server) before merging it.
func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server record diagnostics",
	}
	cmd.AddCommand(newMCPInspectCommand())
	return cmd
}

func newMCPInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Start a registry MCP server record and list its tools",
		Long: `Inspect loads the named MCP server record from the registry, connects to
it (starting the process for a stdio server), and lists the tools it
advertises. This is a read-only diagnostic: it never writes to any host
tool's configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			e, err := newEnv()
			if err != nil {
				return err
			}
			specPath, err := e.reg.GetPath(registry.MCP, name)
			if err != nil {
				return err
			}
			spec, err := mcpdef.Load(specPath)
			if err != nil {
				return err
			}

			result := mcpdef.Probe(cmd.Context(), spec)
			out := cmd.OutOrStdout()
			if result.Err != nil {
				if result.Reachable {
					fmt.Fprintf(out, "%s: connected but tools/list failed: %v\n", name, result.Err)
				} else {
					fmt.Fprintf(out, "%s: unreachable: %v\n", name, result.Err)
				}
				return nil
			}
			fmt.Fprintf(out, "%s: reachable, %d tool(s)\n", name, result.ToolCount)
			return nil
		},
	}
}
