// Package cli provides the command-line interface for the alert bridge.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "groww-trader/internal/errors"
	"groww-trader/internal/models"
	"groww-trader/internal/store"
	"groww-trader/pkg/utils"
)

// addAlertCommands adds the alert command group.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage price alerts",
		Long:  "Create, list, cancel, and evaluate natural language price alerts.",
	}

	cmd.AddCommand(newAlertSetCmd(app))
	cmd.AddCommand(newAlertListCmd(app))
	cmd.AddCommand(newAlertCancelCmd(app))
	cmd.AddCommand(newAlertCheckCmd(app))
	cmd.AddCommand(newAlertHistoryCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAlertSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <command>",
		Short: "Create an alert from a natural language command",
		Long: `Create a price alert from a plain-English command.

The stock reference is resolved to an NSE symbol via the Groww instrument
search; percentage alerts capture the current price as their base.`,
		Example: `  groww-trader alert set "Set alert for RELIANCE if price goes above 2500"
  groww-trader alert set "Alert me when Suzlon Energy drops below 60"
  groww-trader alert set "Notify me if TCS goes up by 5%"`,
		Args: cobra.MinimumNArgs(1),
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

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			command := strings.Join(args, " ")
			msg, alert, err := app.Tools.SetPriceAlert(ctx, command)
			if err != nil {
				return renderAlertError(output, err)
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}
}

func newAlertListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireAlerts(app); err != nil {
				output.Error("%v", err)
				return err
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			status, _ := cmd.Flags().GetString("status")
			filter := store.Filter{
				Symbol: strings.ToUpper(symbol),
				Status: models.AlertStatus(status),
			}

			list, err := app.Manager.ListAlerts(cmd.Context(), filter)
			if err != nil {
				output.Error("Failed to list alerts: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(list)
			}
			if len(list) == 0 {
				output.Dim("No alerts found.")
				return nil
			}

			output.Bold("%-10s %-12s %-14s %-12s %-10s %s", "ID", "SYMBOL", "TYPE", "THRESHOLD", "STATUS", "CREATED")
			for _, a := range list {
				threshold := fmt.Sprintf("%.2f", a.Threshold)
				if a.AlertType.IsPercent() {
					threshold = utils.FormatPercent(a.Threshold)
				}
				output.Printf("%-10s %-12s %-14s %-12s %-10s %s\n",
					a.ShortID(), a.Symbol, a.AlertType, threshold,
					output.StatusText(string(a.Status)),
					a.CreatedAt.Local().Format("02-Jan 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().String("status", "", "filter by status (active, triggered, cancelled)")
	return cmd
}

func newAlertCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <alert-id>",
		Short: "Cancel an active alert",
		Long:  "Cancel an active alert by its ID or an unambiguous ID prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireAlerts(app); err != nil {
				output.Error("%v", err)
				return err
			}

			msg, alert, err := app.Tools.CancelAlert(cmd.Context(), args[0])
			if err != nil {
				if apperrors.Is(err, apperrors.ErrAlertNotFound) {
					output.Error("No active alert matches %q", args[0])
				} else if apperrors.Is(err, apperrors.ErrAlertAmbiguous) {
					output.Error("More than one active alert matches %q, use a longer prefix", args[0])
				} else {
					output.Error("Failed to cancel alert: %v", err)
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}
}

func newAlertCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one evaluation cycle now",
		Long: `Evaluate every active alert against current prices once.

Outside market hours no prices are fetched and the cycle is a no-op.`,
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

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			msg, report, err := app.Tools.CheckAlerts(ctx)
			if err != nil {
				output.Error("Evaluation cycle failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			if report.Skipped {
				output.Warning(msg)
			} else if len(report.Triggered) > 0 {
				output.Success(msg)
			} else {
				output.Println(msg)
			}
			return nil
		},
	}
}

func newAlertHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent alert events",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireAlerts(app); err != nil {
				output.Error("%v", err)
				return err
			}
			if app.Journal == nil {
				output.Warning("Event journal unavailable.")
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			events, err := app.Manager.History(cmd.Context(), limit)
			if err != nil {
				output.Error("Failed to read history: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(events)
			}
			if len(events) == 0 {
				output.Dim("No events recorded.")
				return nil
			}

			for _, ev := range events {
				line := fmt.Sprintf("%s  %-9s %-10s %s",
					ev.CreatedAt.Local().Format("02-Jan 15:04"),
					ev.Kind, ev.Symbol, ev.Message)
				switch ev.Kind {
				case store.EventTriggered:
					output.Success(line)
				case store.EventCancelled:
					output.Dim(line)
				default:
					output.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum events to show")
	return cmd
}

func requireAlerts(app *App) error {
	if app.Manager == nil || app.Tools == nil {
		return fmt.Errorf("alert store unavailable")
	}
	return nil
}

// renderAlertError prints parse and resolution failures with their
// user-facing suggestions before returning the error.
func renderAlertError(output *Output, err error) error {
	var parseErr *apperrors.ParseError
	if apperrors.As(err, &parseErr) {
		output.Error("Could not understand the command: %s", parseErr.Reason)
		output.Dim(parseErr.Suggestion)
		return err
	}

	var resErr *apperrors.ResolutionError
	if apperrors.As(err, &resErr) {
		output.Error("Could not find a stock matching %q", resErr.Query)
		if len(resErr.Suggestions) > 0 {
			output.Println("Did you mean:")
			for _, s := range resErr.Suggestions {
				output.Printf("  %s (%s)\n", s.Symbol, s.Name)
			}
		}
		return err
	}

	output.Error("Failed to set alert: %v", err)
	return err
}
