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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/SoftwareVerse/userverse/common/id"
	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/common/otel"
	"github.com/SoftwareVerse/userverse/core/config"
	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/email"
	"github.com/SoftwareVerse/userverse/internal/http/middleware"
	httprouter "github.com/SoftwareVerse/userverse/internal/http/router"
	"github.com/SoftwareVerse/userverse/internal/jobs"
	"github.com/SoftwareVerse/userverse/internal/ratelimit"
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/service"
	"github.com/SoftwareVerse/userverse/internal/store"
)

const housekeepingInterval = 5 * time.Minute

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "userverse starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	limiter, closeLimiter, err := setupLimiter(ctx, cfg.Redis)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeLimiter()

	// Email: renderer + SMTP deliverer, driven by the job bus.
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load email templates", "error", err)
		os.Exit(1)
	}
	metrics, err := email.NewOTelMetrics()
	if err != nil {
		slog.ErrorContext(ctx, "failed to register email metrics", "error", err)
		os.Exit(1)
	}
	deliverer := email.NewDeliverer(cfg.SMTP, email.WithMetrics(metrics))
	if !cfg.SMTP.Enabled() {
		slog.WarnContext(ctx, "smtp not configured, emails will be printed as plain text")
	}

	bus := jobs.NewBus(jobs.NewMemoryStore())
	bus.Register(jobs.TypeEmailSend, email.NewJobHandler(renderer, deliverer))
	jobs.SetDefault(bus)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	workersDone := bus.Start(workerCtx, cfg.Jobs.Workers)
	slog.InfoContext(ctx, "job workers started", "workers", cfg.Jobs.Workers)

	mailer := email.NewMailer(bus, renderer, deliverer)

	stores := store.NewStores(database.Conn())
	resetLimiter := ratelimit.NewPasswordResetLimiter(limiter, cfg.RateLimit)
	services := service.NewServices(
		stores,
		service.NewTxRunner(database),
		security.NewTokenManager(cfg.JWT),
		mailer,
		resetLimiter,
		cfg.BaseURL,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ipLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	router := setupRouter(cfg, services, ipLimiter)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	housekeepingCtx, stopHousekeeping := context.WithCancel(ctx)
	go housekeeping(housekeepingCtx, stores.PasswordResets(), ipLimiter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stopHousekeeping()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	// Stop accepting jobs, give queued ones the drain timeout, then wait for workers.
	bus.Stop()
	drainCtx, cancelDrain := context.WithTimeout(ctx, cfg.Jobs.DrainTimeout)
	if err := bus.Join(drainCtx); err != nil {
		slog.WarnContext(ctx, "job queue not drained before timeout, cancelling workers", "error", err)
		cancelWorkers()
	}
	cancelDrain()
	<-workersDone
	slog.InfoContext(ctx, "job workers stopped")

	slog.InfoContext(ctx, "shutdown complete")

	// The drain may have outlived shutdownCtx.
	if telemetry != nil {
		if err := shutdownTelemetry(ctx, telemetry, 10*time.Second); err != nil {
			slog.ErrorContext(ctx, "otel shutdown error", "error", err)
		}
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes exporters on a deadline of its own, detached from
// any cancellation on ctx.
func shutdownTelemetry(ctx context.Context, tel shutdowner, timeout time.Duration) error {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return tel.Shutdown(flushCtx)
}

// setupLimiter returns the Redis limiter when REDIS_URL is set, otherwise an in-process one.
func setupLimiter(ctx context.Context, cfg config.RedisConfig) (ratelimit.Limiter, func(), error) {
	if !cfg.Enabled() {
		slog.InfoContext(ctx, "redis disabled, using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	slog.InfoContext(ctx, "redis connected")

	return ratelimit.NewRedisLimiter(client, "userverse:ratelimit:"), func() { _ = client.Close() }, nil
}

func housekeeping(ctx context.Context, resets store.PasswordResetStore, ipLimiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ipLimiter.Sweep()
			n, err := resets.DeleteExpired(ctx, time.Now())
			if err != nil {
				slog.WarnContext(ctx, "failed to purge expired password resets", "error", err)
				continue
			}
			if n > 0 {
				slog.DebugContext(ctx, "purged expired password resets", "count", n)
			}
		}
	}
}

func setupRouter(cfg config.Config, services *service.Services, ipLimiter *middleware.IPRateLimiter) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		RateLimiter: ipLimiter,
	})

	return router
}

const banner = `
 _   _ ___  ___ _ ____   _____ _ __ ___  ___
| | | / __|/ _ \ '__\ \ / / _ \ '__/ __|/ _ \
| |_| \__ \  __/ |   \ V /  __/ |  \__ \  __/
 \__,_|___/\___|_|    \_/ \___|_|  |___/\___|
`
