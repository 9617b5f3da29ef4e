package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/app"
	"github.com/stockdesk/stockdesk/internal/catalog"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/upstream"
	"github.com/stockdesk/stockdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	apiClient := upstream.NewClient(upstream.Options{
		BaseURL:       cfg.APIBaseURL,
		Timeout:       cfg.APITimeout,
		SessionCookie: cfg.APISessionCookie,
	})
	snapshotJob := jobs.NewSnapshotJob(jobs.SnapshotJobConfig{
		API:       apiClient,
		Exporters: catalog.Exporters(apiClient),
		Username:  cfg.SnapshotUser,
		Password:  cfg.SnapshotPassword,
		Dir:       cfg.ExportDir,
		Logger:    logger,
		Metrics:   jobmetrics.NewMetrics(nil),
	})

	var cron []jobs.CronRegistration
	if cfg.SnapshotsEnabled() {
		cron, err = jobs.SnapshotCron(cfg.SnapshotCron, catalog.Entities())
		if err != nil {
			logger.Error("build snapshot schedule", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("snapshot schedule disabled, SNAPSHOT_USER not set")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskExportSnapshot, Handler: snapshotJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("export_dir", cfg.ExportDir), slog.Int("scheduled", len(cron)))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
