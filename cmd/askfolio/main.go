package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/config"
	"github.com/xxxsen/askfolio/internal/filestore"
	"github.com/xxxsen/askfolio/internal/handler"
	"github.com/xxxsen/askfolio/internal/job"
	"github.com/xxxsen/askfolio/internal/middleware"
	"github.com/xxxsen/askfolio/internal/rag"
	"github.com/xxxsen/askfolio/internal/schedule"
)

const cachePurgeSpec = "*/10 * * * *"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "askfolio",
		Short: "askfolio portfolio question answering service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run askfolio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "embed the profile chunks and write the embeddings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runEmbed(cmd.Context(), cfg)
		},
	}

	chunksCmd := &cobra.Command{
		Use:   "chunks",
		Short: "print the chunk corpus built from the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			_, c, err := loadCorpus(cfg.ProfilePath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c.Chunks)
		},
	}

	rootCmd.AddCommand(runCmd, embedCmd, chunksCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Int("chunks", app.corpus.Len()),
		zap.String("embedding_store", cfg.EmbeddingStore.Type),
	)

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewResponseCachePurgeJob(app.cache), cachePurgeSpec); err != nil {
		return fmt.Errorf("schedule cache purge: %w", err)
	}
	resetSpec := cfg.Quota.ResetSchedule()
	if resetSpec != "" {
		if err := scheduler.AddJob(job.NewQuotaResetJob(app.quota), resetSpec); err != nil {
			return fmt.Errorf("schedule quota reset: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()
	if next, ok := scheduler.NextRun("quota_reset"); ok {
		logutil.GetLogger(ctx).Info("quota reset scheduled", zap.Time("next", next), zap.Int64("limit", app.quota.Limit()))
	} else {
		logutil.GetLogger(ctx).Info("quota reset disabled, counter lasts for the process lifetime", zap.Int64("limit", app.quota.Limit()))
	}

	deps := handler.RouterDeps{
		Ask:     handler.NewAskHandler(app.ask),
		Limiter: app.limiter,
	}
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.Recovery(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

func runEmbed(ctx context.Context, cfg *config.Config) error {
	_, c, err := loadCorpus(cfg.ProfilePath)
	if err != nil {
		return err
	}
	embedder, err := buildAI(cfg)
	if err != nil {
		return err
	}
	store, err := filestore.New(cfg.EmbeddingStore)
	if err != nil {
		return fmt.Errorf("init embedding store: %w", err)
	}
	previous, err := rag.LoadEmbeddingFile(ctx, store, cfg.EmbeddingStore.Key, embedder.ModelName())
	if err != nil {
		return err
	}
	interval := time.Duration(cfg.RAG.IndexIntervalMs) * time.Millisecond
	file, err := rag.NewIndexer(embedder, interval).Build(ctx, c.Chunks, previous)
	if err != nil {
		return err
	}
	if err := rag.SaveEmbeddingFile(ctx, store, cfg.EmbeddingStore.Key, file); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("embeddings written",
		zap.String("key", cfg.EmbeddingStore.Key),
		zap.Int("chunks", len(file.Embeddings)),
		zap.Int("dimension", file.Dimension))
	return nil
}
