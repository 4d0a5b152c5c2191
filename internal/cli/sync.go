package cli

import (
	"os"

	hawksync "github.com/pkronstrom/hawk-hooks-sub000/internal/sync"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/consoleout"
	"github.com/spf13/cobra"
)

// NewSyncCommand projects the resolved component set into every enabled
// host tool's native on-disk configuration.
func NewSyncCommand() *cobra.Command {
	var (
		global bool
		force  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Project the resolved configuration into every enabled host tool",
		Long: `Sync resolves the effective component set for each enabled host tool and
projects it into that tool's native configuration files, skipping targets
the sync cache already knows are up to date.

Examples:
  hawk sync
  hawk sync --global
  hawk sync --force --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			engine := e.engine()

			var results map[string]hawksync.Result
			if global {
				r, err := engine.SyncGlobal(force)
				if err != nil {
					return err
				}
				results = r
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				r, err := engine.Sync(cwd, force)
				if err != nil {
					return err
				}
				results = r
			}

			return consoleout.OutputResultsOrJSON(cmd.OutOrStdout(), results, asJSON)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "sync the global scope instead of the current directory")
	cmd.Flags().BoolVar(&force, "force", false, "bypass the sync cache and re-project every target")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit results as JSON instead of a styled summary")
	return cmd
}
