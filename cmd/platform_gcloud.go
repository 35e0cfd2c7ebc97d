//go:build gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/config"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/handler"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/sink"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/logging"
)

func initSink(ctx context.Context, cfg *config.Config) (domain.NotificationSink, func() error, error) {
	cloudTasksSink, err := sink.NewCloudTasksSink(ctx, sink.CloudTasksConfig{
		ProjectID:           cfg.TaskQueue.GCloudProjectID,
		LocationID:          cfg.TaskQueue.GCloudLocationID,
		QueueID:             cfg.TaskQueue.GCloudQueueID,
		TargetURL:           cfg.TaskQueue.GCloudTargetURL,
		ServiceAccountEmail: cfg.TaskQueue.GCloudServiceAccountEmail,
		MaxRetries:          cfg.TaskQueue.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("notification sink initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.TaskQueue.GCloudProjectID),
		slog.String("location", cfg.TaskQueue.GCloudLocationID),
		slog.String("queue", cfg.TaskQueue.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksSink.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksSink, cleanup, nil
}

// startWorker is a no-op: Cloud Tasks delivers fired triggers to the fire endpoint.
func startWorker(_ *config.Config, _ handler.Deliverer) (func(), error) {
	return func() {}, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "appointment-reminder"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
