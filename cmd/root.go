package cmd

import (
	"fmt"
	"os"

	"corescan-portal/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "corescan-portal",
	Short: "Core Scan Portal Service",
	Long: `Core Scan Portal tracks drilling-core scan batches and reconciles them
against scan evidence deposited on the remote file share by the scanning
machines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the debug config: CLI users expect readable
		// timestamps, not epoch millis.
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
