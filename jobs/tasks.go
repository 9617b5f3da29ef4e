package jobs

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/export"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExportSnapshot writes the full listing of one entity to disk.
	TaskExportSnapshot = "export:snapshot"

	snapshotMaxRetry = 3
	snapshotUnique   = 10 * time.Minute
)

// SnapshotPayload names the entity to snapshot and the formats to write.
// An empty Formats list means every supported format. The encoded payload
// is the uniqueness key of the task, so it carries no timestamps.
type SnapshotPayload struct {
	Entity  string   `json:"entity"`
	Formats []string `json:"formats,omitempty"`
}

// ParsedFormats resolves Formats, defaulting to all known formats.
func (p SnapshotPayload) ParsedFormats() ([]export.Format, error) {
	if len(p.Formats) == 0 {
		return export.Formats(), nil
	}
	seen := make(map[export.Format]bool, len(p.Formats))
	formats := make([]export.Format, 0, len(p.Formats))
	for _, raw := range p.Formats {
		f, err := export.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

// Normalized returns the payload with a trimmed entity and formats in
// canonical order. Requesting every format yields an empty list.
func (p SnapshotPayload) Normalized() (SnapshotPayload, error) {
	formats, err := p.ParsedFormats()
	if err != nil {
		return SnapshotPayload{}, err
	}
	out := SnapshotPayload{Entity: strings.TrimSpace(p.Entity)}
	if len(formats) == len(export.Formats()) {
		return out, nil
	}
	for _, f := range export.Formats() {
		if slices.Contains(formats, f) {
			out.Formats = append(out.Formats, string(f))
		}
	}
	return out, nil
}

// NewSnapshotTask constructs an Asynq task for a snapshot run. Equivalent
// payloads encode to the same bytes.
func NewSnapshotTask(payload SnapshotPayload) (*asynq.Task, error) {
	payload, err := payload.Normalized()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportSnapshot, data, asynq.MaxRetry(snapshotMaxRetry)), nil
}
