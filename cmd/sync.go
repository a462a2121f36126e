package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"corescan-portal/core/config"
	"corescan-portal/core/database"
	"corescan-portal/core/logger"
	"corescan-portal/core/share"
	"corescan-portal/core/walker"
	"corescan-portal/feature/batches"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record pending batches for new evidence on the share",
	Long: `Scans the whole remote share and records a pending batch for every
hole and machine pair that has evidence on the share but no batch in the
record store yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		client, err := share.NewClient(cfg.Share)
		if err != nil {
			return fmt.Errorf("failed to create share client: %w", err)
		}
		w := walker.New(client, cfg.Share, logg)

		store := batches.NewStore(db)
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate record store: %w", err)
		}

		ttl := time.Duration(cfg.Share.CacheTTLSeconds) * time.Second
		svc := batches.NewService(store, w, logg, ttl)

		report, err := svc.SyncFromShare(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to sync from share: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
