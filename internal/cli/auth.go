// Package cli provides the command-line interface for the alert bridge.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newAuthStatusCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to the Groww API",
		Long: `Exchange the configured API key and TOTP secret for an access token.

Credentials come from credentials.toml or the GROWW_API_KEY,
GROWW_API_SECRET, and GROWW_TOTP_SECRET environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			if app.Broker.IsAuthenticated() {
				output.Success("✓ Already authenticated")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if err := app.Broker.Login(ctx); err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]bool{"authenticated": true})
			}
			output.Success("✓ Login successful")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			authenticated := app.Broker != nil && app.Broker.IsAuthenticated()
			if output.IsJSON() {
				return output.JSON(map[string]bool{
					"configured":    app.Broker != nil,
					"authenticated": authenticated,
				})
			}

			if app.Broker == nil {
				output.Dim("Broker not configured.")
				return nil
			}
			if authenticated {
				output.Success("✓ Authenticated")
			} else {
				output.Warning("Not authenticated. Run 'groww-trader login'.")
			}
			return nil
		},
	}
}
