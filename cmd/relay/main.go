package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lakshayyy10/BioSync/internal/broadcast"
	"github.com/lakshayyy10/BioSync/internal/config"
	"github.com/lakshayyy10/BioSync/internal/ingest"
	"github.com/lakshayyy10/BioSync/internal/logging"
	"github.com/lakshayyy10/BioSync/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupFeed(cfg *config.Config) ingest.Feed {
	var (
		feed ingest.Feed
		err  error
	)
	switch cfg.FeedBackend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		feed, err = ingest.NewRedisFeed(ctx, cfg.RedisURL, cfg.FeedTopic)
	default:
		feed, err = ingest.NewMQTTFeed(cfg.BrokerURL, "biosync-relay", cfg.FeedTopic)
	}
	if err != nil {
		slog.Error("Failed to connect to feed", "backend", cfg.FeedBackend, "error", err)
		os.Exit(1)
	}
	return feed
}

func runGracefulShutdown(cancelIngest context.CancelFunc, srv *server.Server, broadcaster *broadcast.Broadcaster, feed ingest.Feed) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelIngest()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		broadcaster.Stop()
		feed.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Relay starting", "env", cfg.AppEnv, "port", cfg.Port, "feed_backend", cfg.FeedBackend, "topic", cfg.FeedTopic)

	feed := setupFeed(cfg)
	broadcaster := broadcast.NewBroadcaster(clock, cfg.MaxConnections)
	srv := server.NewServer(cfg, broadcaster, feed)

	ingestCtx, cancelIngest := context.WithCancel(context.Background())
	defer cancelIngest()

	// Ingest failure is fatal: terminate instead of leaving viewers
	// attached to a silently idle stream.
	ingestErr := make(chan error, 1)
	go func() {
		ingestErr <- ingest.Consume(ingestCtx, feed, broadcaster)
	}()

	done := runGracefulShutdown(cancelIngest, srv, broadcaster, feed)

	go func() {
		if err := <-ingestErr; err != nil {
			slog.Error("Ingest terminated", "error", err)
			broadcaster.Stop()
			feed.Close()
			os.Exit(1)
		}
	}()

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
