package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "edi834",
	Short: "Validate EDI X12 834 benefit enrollment files",
	Long: `Validate flat-file EDI X12 834 (benefit enrollment) transactions
against a trading-partner implementation guide: field formats, code value
sets, and mandatory segment presence.

The default guide profile is the NY HCS companion guide; supply an
alternate profile with --profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if rootFlags.verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{Level: level},
		))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&rootFlags.verbose,
		"verbose",
		"v",
		false,
		"enable debug logging",
	)
}
