package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCertificatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificates",
		Short: "Inspect issued certificates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify CODE",
		Short: "Look up a certificate by verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(e *env) error {
				cert, err := e.services.Certificates.Verify(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s user=%s course=%s issued=%s\n",
					cert.VerificationCode, cert.UserID, cert.CourseID, cert.IssuedAt.Format(time.RFC3339))
				return nil
			})
		},
	})
	return cmd
}
