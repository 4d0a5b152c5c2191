package cli

import (
	"fmt"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/registry"
	"github.com/spf13/cobra"
)

// NewAddCommand installs a single component into the registry from a local
// path, optionally replacing an existing one of the same (type, name).
func NewAddCommand() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "add <type> <name> <path>",
		Short: "Add a component to the registry",
		Long: `Add installs a component (skill, hook, prompt, agent, or mcp) into the
local registry, content-addressed by its payload hash.

Examples:
  hawk add hook formatter ./formatter.sh
  hawk add mcp github ./servers/github.yaml --replace`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := registry.NormalizeType(args[0])
			if !ok {
				return fmt.Errorf("unknown component type %q", args[0])
			}
			name, srcPath := args[1], args[2]

			e, err := newEnv()
			if err != nil {
				return err
			}
			if _, err := e.reg.Add(t, name, srcPath, replace); err != nil {
				return err
			}
			hash, err := e.reg.GetHash(t, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (%s)\n", t, name, registry.DisplayHash(hash))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace an existing component of the same type and name")
	return cmd
}
