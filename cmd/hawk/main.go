package main

import (
	"fmt"
	"os"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/cli"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "hawk",
	Short:   "Multi-tool AI-assistant hook and component manager",
	Version: version,
	Long: `hawk manages a local registry of reusable AI-assistant components
(skills, hooks, prompts, agents, MCP servers) and syncs the effective set
into several host tools' native configuration.

Common tasks:
  hawk add hook formatter ./formatter.sh
  hawk sync
  hawk update my-pack --prune
  hawk resolve claude
  hawk mcp inspect github`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "registry", Title: "Registry Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "sync", Title: "Sync Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "diagnostics", Title: "Diagnostics Commands:"})

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.SetOut(os.Stderr)

	originalHelpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		for _, subCmd := range cmd.Commands() {
			if subCmd.Name() == "completion" {
				subCmd.Hidden = true
			}
		}
		originalHelpFunc(cmd, args)
	})

	customHelpCmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long:  `Use "hawk help all" to show help for every command.`,
		Run: func(c *cobra.Command, args []string) {
			if len(args) == 1 && args[0] == "all" {
				for _, subCmd := range rootCmd.Commands() {
					if subCmd.Hidden || subCmd.Name() == "help" {
						continue
					}
					fmt.Fprintf(os.Stderr, "\n--- hawk %s ---\n\n", subCmd.Name())
					_ = subCmd.Help()
				}
				return
			}
			cmd, _, err := rootCmd.Find(args)
			if cmd == nil || err != nil {
				fmt.Fprintf(os.Stderr, "Unknown help topic %#q\n", args)
				_ = rootCmd.Usage()
				return
			}
			cmd.InitDefaultHelpFlag()
			_ = cmd.Help()
		},
	}
	rootCmd.SetHelpCommand(customHelpCmd)

	addCmd := cli.NewAddCommand()
	syncCmd := cli.NewSyncCommand()
	updateCmd := cli.NewUpdateCommand()
	pruneCmd := cli.NewPruneCommand()
	resolveCmd := cli.NewResolveCommand()
	mcpCmd := cli.NewMCPCommand()

	addCmd.GroupID = "registry"
	updateCmd.GroupID = "registry"
	pruneCmd.GroupID = "registry"
	syncCmd.GroupID = "sync"
	resolveCmd.GroupID = "diagnostics"
	mcpCmd.GroupID = "diagnostics"

	rootCmd.AddCommand(addCmd, syncCmd, updateCmd, pruneCmd, resolveCmd, mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
