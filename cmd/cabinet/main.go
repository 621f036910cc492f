package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/internal/server"
	"github.com/marmos91/cabinet/pkg/config"
	"github.com/marmos91/cabinet/pkg/files"
	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/marmos91/cabinet/pkg/metrics"
	"github.com/marmos91/cabinet/pkg/thumbnail"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/cabinet/config.yaml)")
	logLevel := flag.String("log-level", "", "Override configured log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(*logLevel)
	}
	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)

	fmt.Println("Cabinet - File Catalog Server")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.InitRegistry()

	// ========================================================================
	// Backends
	// ========================================================================

	catalogStore, err := config.CreateCatalogStore(ctx, &cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to create catalog store: %v", err)
	}
	defer catalogStore.Close()
	logger.Info("Catalog store: %s", cfg.Catalog.Type)

	contentStore, err := config.CreateContentStore(ctx, &cfg.Content)
	if err != nil {
		log.Fatalf("Failed to create content store: %v", err)
	}
	logger.Info("Content store: %s", cfg.Content.Type)

	derivations, err := config.CreateQueue(ctx, &cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to create derivation queue: %v", err)
	}
	defer derivations.Close()
	logger.Info("Derivation queue: %s", cfg.Queue.Type)

	tokens, users, err := config.CreateIdentityBackends(ctx, &cfg.Tokens, &cfg.Users)
	if err != nil {
		log.Fatalf("Failed to create identity backends: %v", err)
	}
	defer closeIfCloser(tokens)
	logger.Info("Token cache: %s (%d seed users)", cfg.Tokens.Type, len(cfg.Users.Seed))

	// ========================================================================
	// Workers
	// ========================================================================

	pipeline := thumbnail.NewPipeline(catalogStore, contentStore, metrics.NewThumbnailMetrics())

	var workers sync.WaitGroup
	for i := 0; i < cfg.Workers.Count; i++ {
		workers.Add(1)
		go func(n int) {
			defer workers.Done()
			if err := pipeline.Run(ctx, derivations); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Thumbnail worker %d stopped: %v", n, err)
			}
		}(i)
	}
	logger.Info("Started %d thumbnail worker(s)", cfg.Workers.Count)

	// ========================================================================
	// HTTP server
	// ========================================================================

	srv := server.New(cfg.HTTP, server.Dependencies{
		Files:       files.NewService(catalogStore, contentStore, derivations),
		Gate:        identity.NewGate(tokens, users),
		Tokens:      tokens,
		Users:       users,
		Catalog:     catalogStore,
		HTTPMetrics: metrics.NewHTTPMetrics(),
	})

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running on port %d. Press Ctrl+C to stop.", cfg.HTTP.Port)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error: %v", err)
		}
		<-serverDone

		// Stop workers after the HTTP surface is drained so in-flight
		// uploads can still enqueue
		cancel()
		workers.Wait()
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error: %v", err)
			cancel()
			workers.Wait()
			os.Exit(1)
		}
		logger.Info("Server stopped")
	}
}

// closeIfCloser closes backends whose interface doesn't carry Close.
func closeIfCloser(v any) {
	if closer, ok := v.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close backend: %v", err)
		}
	}
}
