package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corescan-portal/core/config"
	"corescan-portal/core/database"
	"corescan-portal/core/loader"
	"corescan-portal/core/logger"
	"corescan-portal/core/middleware/auth"
	"corescan-portal/core/middleware/rayid"
	"corescan-portal/core/share"
	"corescan-portal/core/walker"
	"corescan-portal/feature/batches"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the core scan portal server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the record store. Unlike the share, the database is
		// not optional: every feature persists through it.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Initialize the share client and walker. The share itself may be
		// down; the walker degrades per request, so startup never blocks on it.
		client, err := share.NewClient(cfg.Share)
		if err != nil {
			logg.Fatal("Failed to create share client", zap.Error(err))
		}
		w := walker.New(client, cfg.Share, logg)

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 6. Register Features
		mgr := loader.NewManager()
		cacheTTL := time.Duration(cfg.Share.CacheTTLSeconds) * time.Second
		batchesFeature := batches.NewFeature(db, w, logg, cacheTTL)
		mgr.Register(batchesFeature)

		svc := batchesFeature.Service()
		if err := batches.NewStore(db).Migrate(); err != nil {
			logg.Fatal("Failed to migrate record store", zap.Error(err))
		}
		if missing, err := svc.SchemaCheck(); err != nil {
			logg.Warn("Schema check failed", zap.Error(err))
		} else if len(missing) > 0 {
			logg.Warn("Record store schema is missing columns", zap.Strings("missing", missing))
		}

		// Middleware Registration
		// RayID must be first to trace everything.
		app.Use(rayid.New())

		// Request logging with Zap + RayID.
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Auth protects the whole API surface.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
