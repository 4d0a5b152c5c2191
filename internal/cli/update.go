package cli

import (
	"fmt"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/pkgindex"
	"github.com/spf13/cobra"
)

// NewUpdateCommand refreshes one package (or every package) against its
// upstream source and applies the diff to the registry.
func NewUpdateCommand() *cobra.Command {
	var (
		force bool
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "update [package]",
		Short: "Refresh a package's components against its upstream source",
		Long: `Update re-reads a package's upstream source (a git clone for git-sourced
packages, the pinned directory for local ones) and applies the diff to the
registry: new components are added, changed ones replaced, and components
no longer upstream are reported as prune candidates unless --prune is set.

With no package name, every package in the index is updated.

Examples:
  hawk update my-pack
  hawk update my-pack --force --prune
  hawk update`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			opts := pkgindex.UpdateOptions{Force: force, Prune: prune}

			if len(args) == 1 {
				report, err := e.idx.Update(cmd.Context(), e.reg, args[0], opts)
				if err != nil {
					return err
				}
				if err := e.idx.Save(); err != nil {
					return err
				}
				printUpdateReport(cmd, args[0], report, nil)
				return nil
			}

			batch := e.idx.UpdateAll(cmd.Context(), e.reg, opts)
			if err := e.idx.Save(); err != nil {
				return err
			}
			for _, b := range batch {
				printUpdateReport(cmd, b.Package, b.Report, b.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "update even if the upstream git HEAD is unchanged")
	cmd.Flags().BoolVar(&prune, "prune", false, "remove components no longer present upstream")
	return cmd
}

func printUpdateReport(cmd *cobra.Command, pkg string, report *pkgindex.UpdateReport, err error) {
	out := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintf(out, "%s: error: %v\n", pkg, err)
		return
	}
	if report.Skipped {
		fmt.Fprintf(out, "%s: skipped (%s)\n", pkg, report.Reason)
		return
	}
	fmt.Fprintf(out, "%s:\n", pkg)
	for _, item := range report.Items {
		fmt.Fprintf(out, "  %s %s: %s\n", item.Type, item.Name, item.Status)
	}
}

// NewPruneCommand re-fetches every package in the index and removes any
// component no longer present upstream. It is a convenience shortcut for
// "update --prune" run across the whole index in one pass.
func NewPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove components no longer present in any package's upstream source",
		Long: `Prune re-diffs every package against its upstream source and removes any
component that is no longer present there. It is equivalent to running
"hawk update --prune" for every package in the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			batch := e.idx.UpdateAll(cmd.Context(), e.reg, pkgindex.UpdateOptions{Prune: true})
			if err := e.idx.Save(); err != nil {
				return err
			}
			for _, b := range batch {
				printUpdateReport(cmd, b.Package, b.Report, b.Err)
			}
			return nil
		},
	}
	return cmd
}
