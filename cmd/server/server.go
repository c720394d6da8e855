package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/versus-api/internal/clients/gemini"
	"github.com/KirkDiggler/versus-api/internal/config"
	"github.com/KirkDiggler/versus-api/internal/errors"
	v1 "github.com/KirkDiggler/versus-api/internal/handlers/web/v1"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
	"github.com/KirkDiggler/versus-api/internal/pkg/clock"
	"github.com/KirkDiggler/versus-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/versus-api/internal/redis"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the versus HTTP server: the fight page, its websocket and the JSON API.`,
	RunE:  runServer,
}

func init() {
	config.RegisterFlags(serverCmd.Flags())
}

func runServer(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newGeminiClient(cfg)

	tokenRepo, health, closeRepo, err := newTokenRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	fightService, err := fight.NewOrchestrator(&fight.Config{
		Client:    client,
		TokenRepo: tokenRepo,
		TokenTTL:  cfg.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create fight orchestrator: %w", err)
	}

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		FightService: fightService,
		TokenRepo:    tokenRepo,
		Health:       health,
	})
	if err != nil {
		return fmt.Errorf("failed to create web handler: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server starting", "port", cfg.Port, "model", cfg.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Hijacked websocket connections are not tracked by http.Server
		if err := handler.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Websocket sessions did not close cleanly", "error", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown timeout exceeded, forcing close", "error", err)
			return srv.Close()
		}
		slog.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newGeminiClient falls back to a disabled client when no key is configured
// so the page still loads and explains what is missing
func newGeminiClient(cfg *config.Config) gemini.Client {
	client, err := gemini.New(&gemini.Config{
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		RequestTimeout: cfg.RequestTimeout,
		Temperature:    cfg.Temperature,
		RateLimit:      cfg.RateLimit,
	})
	if err != nil {
		if errors.IsFailedPrecondition(err) {
			slog.Error("Gemini client disabled", "error", errors.GetMessage(err))
		} else {
			slog.Error("Failed to create Gemini client", "error", err)
		}
		return gemini.Disabled(err)
	}
	return client
}

// newTokenRepository uses Redis when an address is configured and keeps
// tokens in process otherwise
func newTokenRepository(ctx context.Context, cfg *config.Config) (fighttoken.Repository, func(context.Context) error, func(), error) {
	if cfg.RedisAddr == "" {
		repo, err := fighttoken.NewInMemory(&fighttoken.InMemoryConfig{
			Clock: clock.New(),
			IDGen: idgen.NewUUID("tok"),
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create in-memory token repository: %w", err)
		}
		slog.Info("Fight tokens stored in memory")
		return repo, nil, func() {}, nil
	}

	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdle,
		MaxRetries:   cfg.RedisMaxRetries,
		UseTLS:       cfg.RedisTLS,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	closeClient := func() {
		_ = client.Close() // nolint:errcheck // safe to ignore on shutdown
	}

	if err := redisclient.Ping(ctx, client); err != nil {
		closeClient()
		return nil, nil, nil, err
	}

	repo, err := fighttoken.NewRedis(&fighttoken.RedisConfig{
		Client: client,
		Clock:  clock.New(),
		IDGen:  idgen.NewUUID("tok"),
	})
	if err != nil {
		closeClient()
		return nil, nil, nil, fmt.Errorf("failed to create redis token repository: %w", err)
	}

	slog.Info("Fight tokens stored in Redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	health := func(ctx context.Context) error {
		return redisclient.Ping(ctx, client)
	}
	return repo, health, closeClient, nil
}
