package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/catalog"
	"github.com/stockdesk/stockdesk/jobs"
)

type enqueuer interface {
	EnqueueSnapshot(ctx context.Context, payload jobs.SnapshotPayload) (*asynq.TaskInfo, error)
	Close() error
}

type inspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for snapshot jobs.
type JobsCLI struct {
	client    enqueuer
	inspector inspector
	entities  []string
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &JobsCLI{client: client, inspector: asynq.NewInspector(opts), entities: catalog.Entities()}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a snapshot of entity. Passing "all" enqueues every entity.
func (c *JobsCLI) Trigger(ctx context.Context, entity string, formats []string) ([]*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	targets := []string{entity}
	if entity == "all" {
		targets = c.entities
	} else if !slices.Contains(c.entities, entity) {
		return nil, fmt.Errorf("%w: %q", jobs.ErrUnknownEntity, entity)
	}
	payload, err := jobs.SnapshotPayload{Formats: formats}.Normalized()
	if err != nil {
		return nil, err
	}
	infos := make([]*asynq.TaskInfo, 0, len(targets))
	for _, target := range targets {
		payload.Entity = target
		info, err := c.client.EnqueueSnapshot(ctx, payload)
		if err != nil {
			return infos, fmt.Errorf("enqueue %s: %w", target, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

// TriggerOptions defines the flags of the trigger command.
type TriggerOptions struct {
	Entity     string
	Formats    []string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// TriggerCommand enqueues snapshots and prints the task ids.
func (c *JobsCLI) TriggerCommand(ctx context.Context, opts TriggerOptions) int {
	stdout, stderr := streams(opts.Stdout, opts.Stderr)
	if opts.Entity == "" {
		_, _ = fmt.Fprintln(stderr, "jobs trigger: --entity is required")
		return 1
	}
	infos, err := c.Trigger(ctx, opts.Entity, opts.Formats)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs trigger: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		ids := make([]string, 0, len(infos))
		for _, info := range infos {
			ids = append(ids, info.ID)
		}
		if err := json.NewEncoder(stdout).Encode(map[string][]string{"task_ids": ids}); err != nil {
			_, _ = fmt.Fprintf(stderr, "jobs trigger: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	for _, info := range infos {
		_, _ = fmt.Fprintf(stdout, "queued %s on %s\n", info.ID, info.Queue)
	}
	return 0
}

// StatsCommand prints queue depth and the upcoming scheduled tasks.
func (c *JobsCLI) StatsCommand(ctx context.Context, size int, stdout, stderr io.Writer) int {
	stdout, stderr = streams(stdout, stderr)
	stats, err := c.InspectQueue(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs stats: %v\n", err)
		return 1
	}
	scheduled, err := c.ListScheduled(ctx, size)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "jobs stats: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "queue\tpending\tactive\tscheduled\tretry\n")
	_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	_ = tw.Flush()
	for _, info := range scheduled {
		var payload jobs.SnapshotPayload
		_ = json.Unmarshal(info.Payload, &payload)
		_, _ = fmt.Fprintf(stdout, "%s %s %s at %s\n", info.ID, info.Type, payload.Entity, info.NextProcessAt.Format(time.RFC3339))
	}
	return 0
}

func streams(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
