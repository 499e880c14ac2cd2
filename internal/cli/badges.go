package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
)

func newBadgesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Manage the badge catalog and awards",
	}
	cmd.AddCommand(newBadgesSeedCommand())
	cmd.AddCommand(newBadgesReconcileCommand())
	return cmd
}

func newBadgesSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert badge definitions from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			badges, err := badge.ParseSeed(f)
			if err != nil {
				return err
			}

			return withEnv(cmd, func(e *env) error {
				ctx := cmd.Context()
				if err := badge.Seed(ctx, e.db, badges); err != nil {
					return err
				}

				names := make([]string, 0, len(badges))
				for _, b := range badges {
					names = append(names, b.Name)
				}
				if err := e.services.BadgeCatalog.Invalidate(ctx, names...); err != nil {
					return fmt.Errorf("invalidate badge cache: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d badges\n", len(badges))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBadgesReconcileCommand() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Award badges that users qualify for but do not hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var userID uuid.UUID
			if user != "" {
				id, err := uuid.Parse(user)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				userID = id
			}

			return withEnv(cmd, func(e *env) error {
				ctx := cmd.Context()
				if userID == uuid.Nil {
					return badge.NewReconcileJob(e.services.Enrollments, e.services.Badges, e.logger).Execute(ctx)
				}

				awarded, err := e.services.Badges.Evaluate(ctx, userID)
				if err != nil {
					return err
				}
				for _, b := range awarded {
					fmt.Fprintf(cmd.OutOrStdout(), "awarded %s\n", b.Name)
				}
				if len(awarded) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to award")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "only reconcile this user id")
	return cmd
}
