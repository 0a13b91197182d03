// Package cli provides the command-line interface for the alert bridge.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"groww-trader/internal/models"
	"groww-trader/pkg/utils"
)

// addMarketCommands adds market data commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newMarketCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
}

func newMarketCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "Show market session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Tools != nil {
				msg, status, err := app.Tools.MonitoringStatus(cmd.Context())
				if err != nil {
					output.Error("Failed to read monitoring status: %v", err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(status)
				}
				printSession(output, status.Session)
				output.Println(msg)
				return nil
			}

			status := app.Clock.Status()
			if output.IsJSON() {
				return output.JSON(status)
			}
			printSession(output, status.Session)
			output.Println(status.NextSession)
			return nil
		},
	}
}

func printSession(output *Output, session models.MarketSession) {
	switch session {
	case models.SessionOpen:
		output.Success("● Market is OPEN")
	case models.SessionPreOpen:
		output.Warning("● Market is in PRE-OPEN session")
	default:
		output.Dim("● Market is CLOSED")
	}
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol>",
		Short: "Fetch a live quote",
		Example: `  groww-trader quote RELIANCE
  groww-trader quote SUZLON`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			quote, err := app.Broker.GetStockPrice(ctx, symbol)
			if err != nil {
				output.Error("Failed to fetch quote for %s: %v", symbol, err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(quote)
			}

			output.Bold("%s", quote.Symbol)
			output.Printf("  LTP:    %s", utils.FormatIndianCurrency(quote.LTP))
			if quote.ChangePercent != 0 {
				change := utils.FormatPercent(quote.ChangePercent)
				if quote.ChangePercent > 0 {
					output.Printf("  %s\n", output.Green(change))
				} else {
					output.Printf("  %s\n", output.Red(change))
				}
			} else {
				output.Println()
			}
			if quote.Open != 0 || quote.High != 0 {
				output.Printf("  OHLC:   %.2f / %.2f / %.2f / %.2f\n",
					quote.Open, quote.High, quote.Low, quote.Close)
			}
			if quote.Volume > 0 {
				output.Printf("  Volume: %s\n", utils.FormatQuantity(quote.Volume))
			}
			return nil
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Short:   "Search instruments by symbol or name",
		Example: `  groww-trader search "suzlon energy"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			query := strings.Join(args, " ")
			results, err := app.Broker.SearchStocks(ctx, query)
			if err != nil {
				output.Error("Search failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(results)
			}
			if len(results) == 0 {
				output.Dim("No instruments match %q.", query)
				return nil
			}

			output.Bold("%-14s %-40s %s", "SYMBOL", "NAME", "EXCHANGE")
			for _, inst := range results {
				output.Printf("%-14s %-40s %s\n", inst.TradingSymbol, inst.Name, inst.Exchange)
			}
			return nil
		},
	}
}
