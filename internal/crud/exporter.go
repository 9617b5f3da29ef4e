package crud

import (
	"context"
	"time"

	"github.com/stockdesk/stockdesk/internal/export"
)

// Exporter is the entity-agnostic view of a Controller used by background
// snapshots.
type Exporter interface {
	Entity() string
	Load(ctx context.Context) error
	Export(format export.Format, now time.Time) (export.Document, error)
}
