package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Sunrmmy/GridTactics/pkg"
	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

var statusCmd = &cobra.Command{
	Use:   "status target... [option=value...]",
	Short: "Checks whether targets changed since they were last recorded",
	Long: `Resolves each target and compares the descriptor with the one stored by "resolve --record".
Without target names, every declared target is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, options := splitArgs(args)

		env, err := setup(cmd)
		if err != nil {
			return err
		}

		registry, err := env.loadRegistry(options)
		if err != nil {
			return err
		}

		if len(names) == 0 {
			names = registry.Names()
		}

		store, err := env.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		changedCount := 0
		for _, name := range names {
			info, err := env.targetInfo(cmd, name)
			if err != nil {
				return err
			}

			desc, err := registry.Resolve(info)
			if err != nil {
				return err
			}

			manifest := targetrules.NewManifest(info, desc)
			changed, err := store.Changed(env.ctx, manifest)
			if err != nil {
				return err
			}

			if changed {
				changedCount++
				pkg.PrintError(out, manifest.Key()+" changed")
			} else {
				pkg.PrintSubtask(out, manifest.Key()+" unchanged")
			}
		}

		if changedCount > 0 {
			return eris.Errorf("%d of %d targets changed", changedCount, len(names))
		}
		return nil
	},
}

func init() {
	addTargetInfoFlags(statusCmd)
}
