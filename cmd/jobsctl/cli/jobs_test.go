package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/catalog"
	"github.com/stockdesk/stockdesk/jobs"
)

type stubQueue struct {
	payloads  []jobs.SnapshotPayload
	scheduled []*asynq.TaskInfo
}

func (s *stubQueue) EnqueueSnapshot(_ context.Context, payload jobs.SnapshotPayload) (*asynq.TaskInfo, error) {
	s.payloads = append(s.payloads, payload)
	return &asynq.TaskInfo{ID: "t-" + payload.Entity, Queue: jobs.QueueDefault}, nil
}

func (s *stubQueue) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Pending: 2, Scheduled: len(s.scheduled)}, nil
}

func (s *stubQueue) ListScheduledTasks(string, ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return s.scheduled, nil
}

func (s *stubQueue) Close() error { return nil }

func newStubCLI(q *stubQueue) *JobsCLI {
	return &JobsCLI{client: q, inspector: q, entities: catalog.Entities()}
}

func TestTriggerAll(t *testing.T) {
	q := &stubQueue{}
	infos, err := newStubCLI(q).Trigger(context.Background(), "all", nil)
	require.NoError(t, err)
	assert.Len(t, infos, len(catalog.Entities()))
	for i, payload := range q.payloads {
		assert.Equal(t, catalog.Entities()[i], payload.Entity)
	}
}

func TestTriggerRejectsUnknownInput(t *testing.T) {
	q := &stubQueue{}
	cli := newStubCLI(q)

	_, err := cli.Trigger(context.Background(), "clientes", nil)
	assert.ErrorIs(t, err, jobs.ErrUnknownEntity)

	_, err = cli.Trigger(context.Background(), "areas", []string{"csv"})
	require.Error(t, err)
	assert.Empty(t, q.payloads)
}

func TestTriggerSendsStablePayload(t *testing.T) {
	q := &stubQueue{}
	cli := newStubCLI(q)
	for range 2 {
		_, err := cli.Trigger(context.Background(), "areas", []string{"xlsx", "pdf"})
		require.NoError(t, err)
	}
	_, err := cli.Trigger(context.Background(), "areas", []string{"Excel"})
	require.NoError(t, err)

	require.Len(t, q.payloads, 3)
	assert.Equal(t, q.payloads[0], q.payloads[1])
	assert.Equal(t, jobs.SnapshotPayload{Entity: "areas"}, q.payloads[0])
	assert.Equal(t, []string{"xlsx"}, q.payloads[2].Formats)
}

func TestTriggerCommandJSON(t *testing.T) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	code := newStubCLI(&stubQueue{}).TriggerCommand(context.Background(), TriggerOptions{
		Entity:     "areas",
		Formats:    []string{"pdf"},
		JSONOutput: true,
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Equal(t, 0, code, stderr.String())

	var out map[string][]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, []string{"t-areas"}, out["task_ids"])
}

func TestTriggerCommandRequiresEntity(t *testing.T) {
	stderr := new(bytes.Buffer)
	code := newStubCLI(&stubQueue{}).TriggerCommand(context.Background(), TriggerOptions{Stdout: new(bytes.Buffer), Stderr: stderr})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "--entity is required")
}

func TestStatsCommand(t *testing.T) {
	payload, _ := json.Marshal(jobs.SnapshotPayload{Entity: "productos"})
	q := &stubQueue{scheduled: []*asynq.TaskInfo{{
		ID:            "sched-1",
		Type:          jobs.TaskExportSnapshot,
		Payload:       payload,
		NextProcessAt: time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC),
	}}}
	stdout := new(bytes.Buffer)
	code := newStubCLI(q).StatsCommand(context.Background(), 5, stdout, new(bytes.Buffer))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "default")
	assert.Contains(t, stdout.String(), "sched-1 export:snapshot productos at 2024-06-02T02:00:00Z")
}
