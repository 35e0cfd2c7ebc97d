//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/config"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/sink"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/worker"
)

func asynqConfig(cfg *config.Config) sink.AsynqConfig {
	return sink.AsynqConfig{
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisTLS:      cfg.Redis.TLSConfig(),
		Queue:         cfg.TaskQueue.QueueName,
		MaxRetry:      cfg.TaskQueue.MaxRetries,
	}
}

func initSink(_ context.Context, cfg *config.Config) (domain.NotificationSink, func() error, error) {
	asynqSink := sink.NewAsynqSink(asynqConfig(cfg))

	slog.Info("notification sink initialized",
		slog.String("type", "asynq"),
		slog.String("redis", cfg.Redis.Addr),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return asynqSink, asynqSink.Close, nil
}

func startWorker(cfg *config.Config, deliverer worker.Deliverer) (func(), error) {
	if !cfg.Reminder.WorkerEnabled {
		slog.Warn("REMINDER_WORKER_ENABLED=false, fired triggers will wait in the queue")
		return func() {}, nil
	}

	w := worker.New(worker.Config{
		Sink:        asynqConfig(cfg),
		Concurrency: cfg.Reminder.WorkerConcurrency,
	}, deliverer)
	if err := w.Start(); err != nil {
		return nil, err
	}

	return w.Shutdown, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "appointment-reminder"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
