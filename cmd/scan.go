package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"corescan-portal/core/config"
	"corescan-portal/core/logger"
	"corescan-portal/core/share"
	"corescan-portal/core/walker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanHole string
var scanImages bool
var scanExt string

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the remote share for batch evidence",
	Long: `Walks the remote share directly, without the record store, and prints
what the scanning machines have deposited. Scans the whole tree by default;
--hole restricts to one drill hole and --images sweeps for image files
instead of batch markers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		client, err := share.NewClient(cfg.Share)
		if err != nil {
			return fmt.Errorf("failed to create share client: %w", err)
		}
		w := walker.New(client, cfg.Share, logg)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if scanImages {
			res := w.ScanForImages(ctx, scanExt)
			logg.Info("Image sweep finished",
				zap.Int("images", len(res.Images)),
				zap.Bool("partial", res.Partial),
				zap.Duration("took", time.Since(startTime)))
			return enc.Encode(res)
		}

		var res walker.ScanResult
		if scanHole != "" {
			res = w.ListBatchesForHole(ctx, scanHole, "")
		} else {
			res = w.ScanForBatches(ctx)
		}
		logg.Info("Share scan finished",
			zap.Int("records", len(res.Records)),
			zap.Bool("partial", res.Partial),
			zap.Duration("took", time.Since(startTime)))
		return enc.Encode(res)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanHole, "hole", "", "restrict the scan to one drill hole")
	scanCmd.Flags().BoolVar(&scanImages, "images", false, "sweep for image files instead of batch markers")
	scanCmd.Flags().StringVar(&scanExt, "ext", "png", "image extension for --images")
	RootCmd.AddCommand(scanCmd)
}
