package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/ai/prompt"
	"github.com/newsdesk/stardesk/internal/ai/registry"
	"github.com/newsdesk/stardesk/internal/ai/validate"
	"github.com/newsdesk/stardesk/internal/api"
	"github.com/newsdesk/stardesk/internal/article"
	"github.com/newsdesk/stardesk/internal/article/archive"
	"github.com/newsdesk/stardesk/internal/config"
	"github.com/newsdesk/stardesk/internal/logger"
	"github.com/newsdesk/stardesk/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the STARDESK server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Credentials come from .env in development; absence is fine.
	_ = godotenv.Load()

	log := logger.Must(debug)
	defer log.Sync()

	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("starting STARDESK server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.AI.Provider),
	)

	var metricsRegistry *metrics.Registry
	if cfg.Metrics.Enabled {
		metricsRegistry = metrics.NewRegistry()
	}

	providerRegistry := registry.New(cfg.AI, log)
	invoker := feature.NewInvoker(providerRegistry, prompt.Default(), log, metricsRegistry)
	orchestrator := validate.New(invoker, log, metricsRegistry)

	store := article.NewStore()
	if cfg.Articles.Seed {
		n := store.Seed()
		log.Info("seeded sample articles", zap.Int("count", n))
	}

	storage, err := buildArchiveStorage(cfg.Archive)
	if err != nil {
		return fmt.Errorf("creating archive storage: %w", err)
	}
	archiver := archive.NewArchiver(storage, log)

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, api.Deps{
		Invoker:      invoker,
		Orchestrator: orchestrator,
		Registry:     providerRegistry,
		Store:        store,
		Archiver:     archiver,
		Metrics:      metricsRegistry,
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Providers initialize after the server is accepting; a slow provider
	// must not delay startup.
	providerRegistry.InitializeAll()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down STARDESK server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func buildArchiveStorage(cfg config.ArchiveConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}
