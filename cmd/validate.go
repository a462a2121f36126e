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
	"corescan-portal/core/utils"
	"corescan-portal/core/walker"
	"corescan-portal/feature/batches"
	"corescan-portal/feature/batches/models"

	"github.com/spf13/cobra"
)

var validateAll bool

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [batch-id]",
	Short: "Reconcile recorded batches against the remote share",
	Long: `Validates one batch (by id) or every pending batch (--all) against the
evidence on the remote share, persisting verdicts to the record store
exactly as the HTTP endpoint does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if !validateAll && len(args) != 1 {
			return fmt.Errorf("expected a batch id or --all")
		}

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

		ttl := time.Duration(cfg.Share.CacheTTLSeconds) * time.Second
		svc := batches.NewService(batches.NewStore(db), w, logg, ttl)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if validateAll {
			pending, err := svc.ListBatches(models.StatusPending, 0, 0)
			if err != nil {
				return fmt.Errorf("failed to list pending batches: %w", err)
			}
			for _, batch := range pending {
				result, err := svc.ValidateBatch(ctx, batch.ID)
				if err != nil {
					return fmt.Errorf("failed to validate batch %d: %w", batch.ID, err)
				}
				if err := enc.Encode(result); err != nil {
					return err
				}
			}
			return nil
		}

		id := uint(utils.ToInt(args[0]))
		result, err := svc.ValidateBatch(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to validate batch %d: %w", id, err)
		}
		if result == nil {
			return fmt.Errorf("batch %d not found", id)
		}
		return enc.Encode(result)
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "validate every pending batch")
	RootCmd.AddCommand(validateCmd)
}
