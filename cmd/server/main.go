package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uploadai/internal/ai"
	"uploadai/internal/api"
	"uploadai/internal/config"
	"uploadai/internal/events"
	"uploadai/internal/logging"
	"uploadai/internal/metrics"
	"uploadai/internal/prompts"
	"uploadai/internal/repository"
	"uploadai/internal/storage"
	"uploadai/internal/stt"
	"uploadai/internal/videos"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.CreateLogger(logging.LogLevel(cfg.LogLevel), "upload-ai")

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := repository.Open(ctx, cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database connected", "driver", db.Driver())

	videoRepo, err := repository.NewSQLVideoRepository(db)
	if err != nil {
		return err
	}
	promptRepo, err := repository.NewSQLPromptRepository(db)
	if err != nil {
		return err
	}

	store, err := storage.NewAudioStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	logger.Info("Upload directory ready", "dir", store.Dir(), "max_bytes", store.MaxBytes())

	sttProvider, err := stt.CreateProvider(cfg, logger)
	if err != nil {
		return err
	}
	aiProvider, err := ai.CreateProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	seeder := prompts.NewSeeder(promptRepo, logger)
	if _, err := os.Stat(cfg.Prompts.File); err == nil {
		if _, err := seeder.SeedFile(ctx, cfg.Prompts.File); err != nil {
			return err
		}
	} else {
		logger.Info("No prompt seed file found, skipping seeding", "file", cfg.Prompts.File)
	}

	m := metrics.New()
	service := videos.NewService(videoRepo, store, sttProvider, aiProvider, publisher, m, logger)
	handler := api.NewHandler(service, promptRepo, cfg.MaxUploadBytes, m, logger)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("upload.ai server running", "port", cfg.Port, "stt", sttProvider.Name(), "ai", aiProvider.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Prompts.Watch {
		watcher, err := prompts.NewWatcher(cfg.Prompts.File, seeder, logger)
		if err != nil {
			logger.Warn("Prompt watcher disabled", "error", err)
		} else {
			g.Go(func() error {
				defer watcher.Stop()
				if err := watcher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// newPublisher connects to the broker when configured. Events are optional,
// so a connection failure falls back to discarding them.
func newPublisher(cfg *config.Config, logger logging.Logger) events.Publisher {
	if cfg.Events.AMQPURL == "" {
		return events.NopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
	if err != nil {
		logger.Warn("AMQP unavailable, events will be discarded", "error", err)
		return events.NopPublisher{}
	}
	return publisher
}
