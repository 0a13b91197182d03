package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"groww-trader/internal/cli"
	"groww-trader/internal/config"
	"groww-trader/internal/logging"
)

func main() {
	// Optional .env for local development; real deployments use
	// credentials.toml or environment variables.
	_ = godotenv.Load()

	configDir := os.Getenv("GROWW_TRADER_CONFIG_DIR")
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
