// Package cmd wires the football-sync command line interface.
package cmd

import (
	"fmt"
	"os"

	"football-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "football-sync",
	Short: "Football data synchronization service",
	Long: `football-sync keeps a local relational store of football competition
data (countries, leagues, seasons, teams, players, coaches, fixtures,
standings, odds) synchronized with the API-Sports provider.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the structured logger so CLI failures look
		// the same as job failures. Debug level selects the
		// development config with readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
