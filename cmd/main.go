package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/config"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/handler"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/health"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/accessclient"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/appointment"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/outcomerecorder"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/push"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/repository"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/middleware"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/access"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/delivery"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/reminder"
)

// Version is set via ldflags at build time
var Version = "dev"

const moduleName = logging.Module("appointment-reminder")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		slog.Error("failed to initialize reminder metrics", slog.String("error", err.Error()))
		return 1
	}

	accessMetrics, err := metrics.NewAccessMetrics()
	if err != nil {
		slog.Error("failed to initialize access metrics", slog.String("error", err.Error()))
		return 1
	}

	// Outcome recorder (InfluxDB for local, BigQuery for gcloud)
	outcomeRecorder, err := outcomerecorder.NewRecorder(ctx, outcomerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize outcome recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := outcomeRecorder.Close(); err != nil {
			slog.Warn("failed to close outcome recorder", slog.String("error", err.Error()))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		TLSConfig: cfg.Redis.TLSConfig(),
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	appointments, err := appointment.Open(appointment.Config{
		DSN:      cfg.Database.URL,
		LogLevel: gormLogLevel(cfg.LogLevel),
	})
	if err != nil {
		slog.Error("failed to open appointment database",
			slog.String("event", "postgres.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := appointments.Close(); err != nil {
			slog.Warn("failed to close appointment database", slog.String("error", err.Error()))
		}
	}()

	notificationSink, sinkCleanup, err := initSink(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notification sink", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := sinkCleanup(); err != nil {
			slog.Error("notification sink cleanup error", slog.String("error", err.Error()))
		}
	}()

	sender, err := initPushSender(ctx, cfg.Push)
	if err != nil {
		slog.Error("failed to initialize push sender", slog.String("error", err.Error()))
		return 1
	}

	settingsRepo := repository.NewSettingsRepository(redisClient)

	reminderService := reminder.NewService(
		notificationSink,
		settingsRepo,
		appointments,
		outcomeRecorder,
		reminderMetrics,
	)
	deliveryService := delivery.NewService(sender, reminderService, reminderMetrics)

	stopWorker, err := startWorker(cfg, deliveryService)
	if err != nil {
		slog.Error("failed to start reminder worker", slog.String("error", err.Error()))
		return 1
	}
	defer stopWorker()

	handlers := handler.Handlers{
		Reminder: handler.NewReminderHandler(reminderService),
		Fire:     handler.NewFireHandler(deliveryService),
	}

	var poller *access.Poller
	if cfg.Access.Enabled() {
		accessClient := accessclient.NewClient(cfg.Access.AccountServiceURL)
		poller = access.NewPoller(accessClient, accessClient, accessMetrics, access.Config{
			Interval:           cfg.Access.PollInterval,
			CheckTimeout:       cfg.Access.CheckTimeout,
			PrivilegedSubjects: cfg.Access.PrivilegedSubjects,
		})
		handlers.Access = handler.NewAccessHandler(poller)
		defer poller.Stop()
	} else {
		slog.Warn("ACCOUNT_SERVICE_URL not set, access polling disabled")
	}

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     moduleName,
		TracerName: "github.com/KasumiMercury/primind-appointment-reminder/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if taskName := c.Request.Header.Get("X-CloudTasks-TaskName"); taskName != "" {
				return taskName
			}
			return c.Request.URL.Path
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(Version, map[string]health.Pinger{
		"redis":    health.RedisPinger(redisClient),
		"postgres": appointments,
	})
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	handler.RegisterRoutes(r, handlers)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("push_provider", string(cfg.Push.Provider)),
			slog.Bool("access_polling", cfg.Access.Enabled()),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func initPushSender(ctx context.Context, cfg *config.PushConfig) (push.Sender, error) {
	if cfg.Provider != config.PushProviderFCM {
		slog.Info("push sender initialized", slog.String("type", "log"))
		return push.NewLogSender(), nil
	}

	sender, err := push.NewFCMSender(ctx, push.FCMConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("push sender initialized",
		slog.String("type", "fcm"),
		slog.String("project", cfg.FirebaseProjectID),
	)
	return sender, nil
}

func gormLogLevel(level slog.Level) gormlogger.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return gormlogger.Info
	case level >= slog.LevelError:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
