package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/horario-planner/internal/models"
	"github.com/noah-isme/horario-planner/internal/service"
)

func newTokenCmd(app *cliApp) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator access token for the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.auth().IssueToken(service.IssueTokenRequest{
				Subject: subject,
				Role:    models.UserRole(role),
				TTL:     ttl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "operator name recorded on imports")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "ADMIN or VIEWER")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
