package main

import (
	"fmt"
	"time"

	"rack-wms/config"
	"rack-wms/middleware"
	"rack-wms/services"

	"github.com/spf13/cobra"
)

func alertCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "alert",
		Short: "Send the low stock digest now",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if !config.AlertingEnabled() {
				return fmt.Errorf("SMTP_HOST and ALERT_RECIPIENTS must be set")
			}
			alerter := services.NewLowStockAlerter(e.inventory, services.NewSMTPSender(),
				config.AlertFrom, config.AlertRecipients, e.log)
			n, err := alerter.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digest listed %d balances\n", n)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			if config.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, err := middleware.IssueToken(config.JWTSecret, user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "operator", "Name recorded as the actor")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
