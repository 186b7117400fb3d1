package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [option=value...]",
	Short: "Lists the declared targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		_, options := splitArgs(args)
		registry, err := env.loadRegistry(options)
		if err != nil {
			return err
		}

		names := registry.Names()
		maxNameLen := 0
		for _, name := range names {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available targets:")

		lineFmt := fmt.Sprintf(" * %%-%ds %%-8s %%s\n", maxNameLen+3)
		for _, name := range names {
			rules, _ := registry.Lookup(name)
			fmt.Fprintf(out, lineFmt, name+":", rules.TargetType, rules.Source)
		}

		return nil
	},
}
