package cli

import (
	"fmt"
	"os"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/scope"
	"github.com/spf13/cobra"
)

// NewResolveCommand prints the effective component plan one host tool
// would sync, without touching any on-disk configuration. It exists so a
// user can inspect what the layered scope chain would produce before
// running sync for real.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <tool>",
		Short: "Show the resolved component plan for a host tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool := args[0]
			e, err := newEnv()
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			state, err := scope.Resolve(e.paths, cwd, tool)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !state.ToolEnabled() {
				fmt.Fprintf(out, "%s: disabled\n", tool)
				return nil
			}
			for _, t := range registry.AllTypes {
				names := state.ComponentPlan(t)
				if len(names) == 0 {
					continue
				}
				fmt.Fprintf(out, "%s:\n", t)
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
	return cmd
}
