package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mo-amir99/lms-progress-server-go/internal/bootstrap"
)

func newMigrateCommand() *cobra.Command {
	var (
		only []string
		list bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range bootstrap.MigrationNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			return withEnv(cmd, func(e *env) error {
				if err := bootstrap.Migrate(cmd.Context(), e.db, e.logger, only...); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "run just these migrations (see --list)")
	cmd.Flags().BoolVar(&list, "list", false, "print registered migrations and exit")
	return cmd
}
