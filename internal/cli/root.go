// Package cli provides the command-line interface for the alert bridge.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"groww-trader/internal/alerts"
	"groww-trader/internal/broker"
	"groww-trader/internal/config"
	"groww-trader/internal/logging"
	"groww-trader/internal/market"
	"groww-trader/internal/notify"
	"groww-trader/internal/store"
	"groww-trader/internal/tools"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-30"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Clock    *market.Clock
	Broker   broker.Broker
	Store    store.AlertStore
	Journal  *store.Journal
	Notifier *notify.MultiNotifier
	Manager  *alerts.Manager
	Tools    *tools.Toolset
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Clock: market.NewClock(
			cfg.Monitor.OpenInterval,
			cfg.Monitor.PreOpenInterval,
			cfg.Monitor.ClosedInterval,
		),
	}

	// Initialize broker if credentials are available
	if cfg.HasCredentials() {
		app.Broker = broker.NewGrowwBroker(broker.GrowwConfig{
			APIKey:     cfg.Credentials.Groww.APIKey,
			APISecret:  cfg.Credentials.Groww.APISecret,
			TOTPSecret: cfg.Credentials.Groww.TOTPSecret,
		}, app.Clock, logger)
		logger.Debug().Msg("Groww broker initialized")
	}

	// Initialize flat-file alert store
	fileStore, err := store.NewFileStore(cfg.Alerts.FilePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize alert store, alert commands will be unavailable")
	} else {
		app.Store = fileStore
		logger.Debug().Str("path", cfg.Alerts.FilePath).Msg("Alert store initialized")
	}

	// Initialize SQLite event journal
	journal, err := store.NewJournal(cfg.Alerts.JournalPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize journal, history will be unavailable")
	} else {
		app.Journal = journal
	}

	// Notifier. Remote channels attach only when notifications are enabled;
	// the monitor command adds a terminal channel on top.
	if cfg.Notifications.Enabled {
		app.Notifier = notify.NewMultiNotifier(&cfg.Notifications)
	} else {
		app.Notifier = notify.NewMultiNotifier(&config.NotificationConfig{})
	}

	if app.Store != nil {
		app.Manager = alerts.NewManager(
			app.Broker, app.Store, app.Journal, app.Notifier,
			app.Clock, cfg.Resolver.AcceptanceFloor, logger,
		)
		app.Tools = tools.New(app.Manager, app.Clock)
	}

	rootCmd := &cobra.Command{
		Use:   "groww-trader",
		Short: "Groww Trader - natural language price alerts for the Indian stock market",
		Long: `Groww Trader bridges plain-English alert commands to the Groww trading API.

It parses commands like "Set alert for Reliance if price goes above 2500",
resolves stock references to NSE symbols, persists alerts to a flat file,
and polls live prices on a market-hours-aware schedule.

Use 'groww-trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/groww-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addMonitorCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Groww Trader v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Alert Store")
	output.Printf("  File:    %s\n", cfg.Alerts.FilePath)
	output.Printf("  Journal: %s\n", cfg.Alerts.JournalPath)
	output.Println()

	output.Bold("Monitoring Intervals")
	output.Printf("  Open:     %s\n", cfg.Monitor.OpenInterval)
	output.Printf("  Pre-open: %s\n", cfg.Monitor.PreOpenInterval)
	output.Printf("  Closed:   %s\n", cfg.Monitor.ClosedInterval)
	output.Println()

	output.Bold("Symbol Resolver")
	output.Printf("  Acceptance floor: %d\n", cfg.Resolver.AcceptanceFloor)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled: %v\n", cfg.Notifications.Enabled)
	output.Printf("  Webhook: %v  Telegram: %v  Email: %v\n",
		cfg.Notifications.Webhook.Enabled,
		cfg.Notifications.Telegram.Enabled,
		cfg.Notifications.Email.Enabled)
	output.Println()

	output.Bold("Credentials")
	if cfg.HasCredentials() {
		output.Printf("  Groww API key: %s\n", maskSecret(cfg.Credentials.Groww.APIKey))
	} else {
		output.Printf("  Groww API key: %s\n", output.DimText("not configured"))
	}
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
