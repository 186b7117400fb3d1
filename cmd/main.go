package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "tool",
	Short: "Build tools for GridTactics",
	Long: `This command bundles the tools that prepare GridTactics builds.
This includes resolving the build-target rules for the build orchestrator and tracking
which targets changed since they were last recorded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cmd.TargetCmd)
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
