package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/trindadeeesx/nexus/internal/adapter"
	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/config"
	"github.com/trindadeeesx/nexus/internal/echo"
	"github.com/trindadeeesx/nexus/internal/guard"
	"github.com/trindadeeesx/nexus/internal/memory"
	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/pipeline"
	"github.com/trindadeeesx/nexus/internal/policy"
	"github.com/trindadeeesx/nexus/internal/ratelimit"
	"github.com/trindadeeesx/nexus/internal/server"
	"github.com/trindadeeesx/nexus/internal/session"
	"github.com/trindadeeesx/nexus/internal/storage"
	"github.com/trindadeeesx/nexus/internal/telemetry"
	"github.com/trindadeeesx/nexus/internal/terminal"
	"github.com/trindadeeesx/nexus/internal/veto"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("nexus starting", "version", version, "port", cfg.Port)

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, true)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Oracle observation store.
	db, err := storage.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer db.Close()

	oracleSvc := oracle.NewService(db, logger)

	sessions := session.NewManager(cfg.SessionTimeout)
	agents := agent.NewRegistry(agent.Lucia{}, agent.Dominus{})

	guardCfg := guard.DefaultConfig()
	guardCfg.MinConfidence = cfg.MinConfidence
	guardCfg.Cooldown = cfg.Cooldown

	pipe := pipeline.New(pipeline.Config{
		Policies: policy.NewEngine(policy.FoodPolicy{}, policy.ChatPolicy{}),
		Guard:    guard.New(guardCfg),
		Veto:     veto.New(cfg.VetoConfidence),
		Sessions: sessions,
		Router:   session.NewRouter(sessions, cfg.DefaultAgent),
		Agents:   agents,
		Executor: echo.New(adapter.Log{Logger: logger}),
		Oracle:   oracleSvc,
		Memory:   memory.NewStore(cfg.MemoryLimit),
		Logger:   logger,
	})

	var limiter ratelimit.Limiter
	if cfg.RateLimitPerSec > 0 {
		memLimiter := ratelimit.NewMemoryLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst)
		defer func() { _ = memLimiter.Close() }()
		limiter = memLimiter
		logger.Info("rate limiting: memory (in-process token bucket)",
			"per_sec", cfg.RateLimitPerSec, "burst", cfg.RateLimitBurst)
	} else {
		limiter = ratelimit.NoopLimiter{}
		logger.Info("rate limiting: disabled")
	}

	srv := server.New(server.Config{
		Pipeline:     pipe,
		Oracle:       oracleSvc,
		Logger:       logger,
		Limiter:      limiter,
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Version:      version,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.TerminalAddr != "" {
		termSrv := terminal.New(cfg.TerminalAddr, pipe, agents, logger)
		g.Go(func() error { return termSrv.Serve(gctx) })
	} else {
		logger.Info("terminal stream: disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("nexus stopped")
	return nil
}
