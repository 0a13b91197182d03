// Package cli provides the command-line interface for the alert bridge.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"groww-trader/internal/notify"
)

// addMonitorCommands adds the monitoring loop command.
func addMonitorCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newMonitorCmd(app))
}

func newMonitorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run the alert monitoring loop",
		Long: `Run the alert monitoring loop until interrupted.

Active alerts are evaluated on a market-hours-aware schedule: every few
minutes while the market is open, less often in pre-open, and hourly
while closed (without fetching any prices). Triggered alerts are
persisted and notified once.`,
		Example: `  groww-trader monitor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireAlerts(app); err != nil {
				output.Error("%v", err)
				return err
			}
			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Triggers print to the terminal even with no remote
			// channels configured.
			app.Notifier.AddChannel(notify.NewTerminalNotifier(cmd.OutOrStdout()))

			status := app.Clock.Status()
			output.Info("Monitoring started (%s). Press Ctrl+C to stop.", status.Session)
			output.Dim("Polling every %s in the current session.", app.Clock.Interval())

			err := app.Manager.Monitor(ctx)
			if err == context.Canceled || ctx.Err() != nil {
				output.Println()
				output.Info("Monitoring stopped.")
				return nil
			}
			return err
		},
	}
}
