package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists the descriptors recorded with \"resolve --record\"",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		store, err := env.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(env.ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "Nothing recorded yet.")
			return nil
		}

		for _, entry := range entries {
			desc := entry.Manifest.Descriptor
			fmt.Fprintf(out, " * %s: %s %s %s [%s] (%s, run %s)\n", entry.Manifest.Key(), desc.TargetType,
				desc.BuildSettingsVersion, desc.IncludeOrderVersion, strings.Join(desc.ExtraModules, ", "),
				entry.Recorded.Local().Format(time.RFC3339), entry.RunID)
		}

		return nil
	},
}
