package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Crypto RSI Dashboard",
		Long: `Computes multi-timeframe RSI, trend and entry/exit signals for a list of coins
from public exchange candles and serves them as a sortable web table.`,
		SilenceUsage: true,
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().String("config", defaultPath, "Configuration file path")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScanCmd())

	return rootCmd
}
