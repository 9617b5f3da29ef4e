package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/catalog"
	"github.com/stockdesk/stockdesk/internal/export"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ErrUnknownEntity is returned for snapshot requests naming no catalog entity.
var ErrUnknownEntity = errors.New("jobs: unknown entity")

// Authenticator opens and closes API sessions for the service account.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
}

// SnapshotJob writes entity listings to the export directory.
type SnapshotJob struct {
	API       Authenticator
	Exporters map[string]catalog.ExporterFactory
	Username  string
	Password  string
	Dir       string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// SnapshotJobConfig collects the dependencies of a SnapshotJob.
type SnapshotJobConfig struct {
	API       Authenticator
	Exporters map[string]catalog.ExporterFactory
	Username  string
	Password  string
	Dir       string
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewSnapshotJob wires dependencies for the snapshot handler.
func NewSnapshotJob(cfg SnapshotJobConfig) *SnapshotJob {
	return &SnapshotJob{
		API:       cfg.API,
		Exporters: cfg.Exporters,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Dir:       cfg.Dir,
		Logger:    cfg.Logger,
		Metrics:   cfg.Metrics,
		clock:     time.Now,
	}
}

// Handle processes TaskExportSnapshot tasks.
func (j *SnapshotJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("export snapshot: handler not configured")
	}
	var payload SnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	_, err := j.Run(ctx, payload)
	if errors.Is(err, ErrUnknownEntity) || errors.Is(err, export.ErrUnknownFormat) || errors.Is(err, upstream.ErrInvalidCredentials) {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

// Run signs in, loads the entity listing once and stores one document per
// requested format. It returns the written paths.
func (j *SnapshotJob) Run(ctx context.Context, payload SnapshotPayload) (paths []string, resultErr error) {
	tracker := j.metrics().Track(TaskExportSnapshot)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("entity", payload.Entity))
	factory, ok := j.Exporters[payload.Entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, payload.Entity)
	}
	formats, err := payload.ParsedFormats()
	if err != nil {
		return nil, err
	}

	session, err := j.API.Login(ctx, j.Username, j.Password)
	if err != nil {
		logger.Error("snapshot login", slog.Any("error", err))
		return nil, fmt.Errorf("export snapshot login: %w", err)
	}
	ctx = upstream.WithSession(ctx, session)
	defer func() {
		if err := j.API.Logout(ctx); err != nil {
			logger.Warn("snapshot logout", slog.Any("error", err))
		}
	}()

	exporter := factory(logger)
	if err := exporter.Load(ctx); err != nil {
		return nil, fmt.Errorf("export snapshot load %s: %w", payload.Entity, err)
	}

	now := j.now()
	for _, format := range formats {
		doc, err := exporter.Export(format, now)
		if err != nil {
			return paths, fmt.Errorf("export snapshot %s %s: %w", payload.Entity, format, err)
		}
		path, err := doc.Store(j.Dir)
		if err != nil {
			return paths, err
		}
		j.metrics().AddDocument(payload.Entity, string(format))
		paths = append(paths, path)
		logger.Info("snapshot written", slog.String("format", string(format)), slog.String("path", path))
	}
	return paths, nil
}

func (j *SnapshotJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SnapshotJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *SnapshotJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}

// SnapshotCron prepares one nightly registration per entity.
func SnapshotCron(spec string, entities []string) ([]CronRegistration, error) {
	if spec == "" {
		return nil, nil
	}
	entries := make([]CronRegistration, 0, len(entities))
	for _, entity := range entities {
		task, err := NewSnapshotTask(SnapshotPayload{Entity: entity})
		if err != nil {
			return nil, err
		}
		entries = append(entries, CronRegistration{Spec: spec, Task: task, Options: []asynq.Option{asynq.Queue(QueueDefault)}})
	}
	return entries, nil
}
