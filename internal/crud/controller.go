// Package crud implements the list/edit/delete/export controller shared by
// every catalog screen.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stockdesk/stockdesk/internal/export"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// ErrSuperseded is returned by Load when a newer Load started before this one
// finished. The stale result is discarded.
var ErrSuperseded = errors.New("load superseded")

// Record is implemented by every entity managed by a Controller.
type Record[T any] interface {
	// Identity reports the server identifier, false for records not yet created.
	Identity() (int64, bool)
	// Clone returns a copy that shares no mutable state with the receiver.
	Clone() T
}

// Store is the remote collection a controller reads and writes.
// *upstream.Resource satisfies it.
type Store[T any] interface {
	Path() string
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id int64, record T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Column maps a record to one cell of the listing and its exports.
type Column[T any] struct {
	Header string
	Text   func(T) string
	// Value is the typed spreadsheet value. Nil means the spreadsheet gets Text.
	Value func(T) any
}

// Config parameterises a controller for one entity.
type Config[T Record[T]] struct {
	// Entity is the lower-case plural name used in export filenames, e.g. "proveedores".
	Entity string
	// Title is the human plural, e.g. "Suppliers".
	Title string
	// Noun is the human singular, e.g. "supplier".
	Noun  string
	Store Store[T]
	Blank func() T
	// Validate reports missing required fields. Errors should wrap ErrValidation.
	Validate     func(T) error
	Columns      []Column[T]
	SearchFields func(T) []string
	// ConflictFallback is shown when a delete conflict carries no server text.
	ConflictFallback string
}

// State is the view state of one screen activation.
type State[T any] struct {
	Items       []T
	Selected    T
	FormVisible bool
	Filter      string
}

// Controller bridges a remote collection and an edit surface for a single
// entity type. It is safe for concurrent use; only the latest Load may
// publish Items.
type Controller[T Record[T]] struct {
	cfg      Config[T]
	logger   *slog.Logger
	notifier Notifier

	mu         sync.Mutex
	state      State[T]
	loadSeq    uint64
	cancelLoad context.CancelFunc
}

// New builds a controller in the Idle state with an empty list.
func New[T Record[T]](cfg Config[T], logger *slog.Logger, notifier Notifier) *Controller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = DiscardNotifier{}
	}
	return &Controller[T]{
		cfg:      cfg,
		logger:   logger.With(slog.String("entity", cfg.Entity)),
		notifier: notifier,
		state:    State[T]{Items: []T{}, Selected: cfg.Blank()},
	}
}

// Entity returns the configured entity name.
func (c *Controller[T]) Entity() string {
	return c.cfg.Entity
}

// Title returns the human plural title.
func (c *Controller[T]) Title() string {
	return c.cfg.Title
}

// Noun returns the human singular name.
func (c *Controller[T]) Noun() string {
	return c.cfg.Noun
}

// Load fetches the whole collection and replaces Items. On failure Items are
// left untouched. Starting a Load cancels any Load still in flight.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelLoad != nil {
		c.cancelLoad()
	}
	c.loadSeq++
	seq := c.loadSeq
	ctx, cancel := context.WithCancel(ctx)
	c.cancelLoad = cancel
	c.mu.Unlock()
	defer cancel()

	items, err := c.cfg.Store.List(ctx)

	c.mu.Lock()
	if seq != c.loadSeq {
		c.mu.Unlock()
		if err != nil {
			c.logger.Debug("superseded load failed", slog.String("resource", c.cfg.Store.Path()), slog.Any("error", err))
		}
		return ErrSuperseded
	}
	c.cancelLoad = nil
	if err == nil {
		c.state.Items = items
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("load list", slog.String("resource", c.cfg.Store.Path()), slog.Any("error", err))
		c.notify(ctx, LevelError, "Error", fmt.Sprintf("Could not load the %s list.", c.cfg.Noun))
		return fmt.Errorf("load %s: %w", c.cfg.Entity, err)
	}
	return nil
}

// StartCreate opens the form on a blank record.
func (c *Controller[T]) StartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = c.cfg.Blank()
	c.state.FormVisible = true
}

// StartEdit opens the form on a copy of record.
func (c *Controller[T]) StartEdit(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = record.Clone()
	c.state.FormVisible = true
}

// UpdateSelected applies fn to the edit buffer.
func (c *Controller[T]) UpdateSelected(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state.Selected)
}

// Cancel hides the form and discards the buffer.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = c.cfg.Blank()
	c.state.FormVisible = false
}

// Save validates the buffer and sends it as an update when it carries an id
// or as a create otherwise. Any failure leaves the form open with the buffer
// intact.
func (c *Controller[T]) Save(ctx context.Context) error {
	c.mu.Lock()
	record := c.state.Selected.Clone()
	c.mu.Unlock()

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(record); err != nil {
			c.notify(ctx, LevelWarning, "Incomplete fields", shared.UserSafeMessage(err))
			return err
		}
	}

	id, update := record.Identity()
	var err error
	if update {
		_, err = c.cfg.Store.Update(ctx, id, record)
	} else {
		_, err = c.cfg.Store.Create(ctx, record)
	}
	if err != nil {
		verb := "creating"
		if update {
			verb = "updating"
		}
		c.logger.Error("save record", slog.Bool("update", update), slog.Int64("id", id), slog.Any("error", err))
		c.notify(ctx, LevelError, "Error", fmt.Sprintf("An error occurred while %s the %s.", verb, c.cfg.Noun))
		return fmt.Errorf("save %s: %w", c.cfg.Entity, err)
	}

	c.mu.Lock()
	c.state.FormVisible = false
	c.state.Selected = c.cfg.Blank()
	c.mu.Unlock()

	if update {
		c.notify(ctx, LevelSuccess, "Updated", fmt.Sprintf("The %s was updated successfully.", c.cfg.Noun))
	} else {
		c.notify(ctx, LevelSuccess, "Created", fmt.Sprintf("The %s was created successfully.", c.cfg.Noun))
	}
	_ = c.Load(ctx)
	return nil
}

// DeletePrompt is the question asked before a delete.
func (c *Controller[T]) DeletePrompt() Prompt {
	return Prompt{
		Title:   fmt.Sprintf("Are you sure you want to delete this %s?", c.cfg.Noun),
		Text:    fmt.Sprintf("This will permanently delete the %s.", c.cfg.Noun),
		Confirm: "Yes, delete",
		Cancel:  "Cancel",
	}
}

// Remove deletes the record with id once confirmer accepts. It reports
// whether the delete was attempted. Items are never removed locally; they
// change only through the Load that follows a successful delete.
func (c *Controller[T]) Remove(ctx context.Context, id int64, confirmer Confirmer) (bool, error) {
	ok, err := confirmer.Confirm(ctx, c.DeletePrompt())
	if err != nil {
		return false, fmt.Errorf("confirm delete %s %d: %w", c.cfg.Entity, id, err)
	}
	if !ok {
		return false, nil
	}

	if err := c.cfg.Store.Delete(ctx, id); err != nil {
		c.logger.Error("delete record", slog.Int64("id", id), slog.Any("error", err))
		title := "Error"
		text := fmt.Sprintf("An error occurred while deleting the %s.", c.cfg.Noun)
		if errors.Is(err, upstream.ErrConflict) {
			title = "Cannot delete"
			text = upstream.ResponseText(err)
			if text == "" {
				text = c.cfg.ConflictFallback
			}
		}
		c.notify(ctx, LevelError, title, text)
		return true, fmt.Errorf("delete %s %d: %w", c.cfg.Entity, id, err)
	}

	c.notify(ctx, LevelSuccess, "Deleted", fmt.Sprintf("The %s was deleted successfully.", c.cfg.Noun))
	_ = c.Load(ctx)
	return true, nil
}

// Find returns the loaded record with id.
func (c *Controller[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if itemID, ok := item.Identity(); ok && itemID == id {
			return item.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// SetFilter sets the search text used by Filtered.
func (c *Controller[T]) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = text
}

// Filtered returns the items whose search fields contain the filter text,
// compared under Unicode case folding. An empty filter returns every item.
func (c *Controller[T]) Filtered() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	needle := strings.TrimSpace(c.state.Filter)
	if needle == "" || c.cfg.SearchFields == nil {
		return append([]T(nil), c.state.Items...)
	}
	fold := cases.Fold()
	needle = fold.String(needle)

	out := make([]T, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		for _, field := range c.cfg.SearchFields(item) {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Items:       append([]T(nil), c.state.Items...),
		Selected:    c.state.Selected.Clone(),
		FormVisible: c.state.FormVisible,
		Filter:      c.state.Filter,
	}
}

// Headers returns the column headers.
func (c *Controller[T]) Headers() []string {
	headers := make([]string, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		headers[i] = col.Header
	}
	return headers
}

// Row returns the display text of record per column.
func (c *Controller[T]) Row(record T) []string {
	row := make([]string, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		row[i] = col.Text(record)
	}
	return row
}

// Table builds the export table of the loaded items.
func (c *Controller[T]) Table() export.Table {
	c.mu.Lock()
	items := append([]T(nil), c.state.Items...)
	c.mu.Unlock()

	rows := make([][]export.Cell, 0, len(items))
	for _, item := range items {
		row := make([]export.Cell, len(c.cfg.Columns))
		for i, col := range c.cfg.Columns {
			row[i] = export.Cell{Text: col.Text(item)}
			if col.Value != nil {
				row[i].Value = col.Value(item)
			}
		}
		rows = append(rows, row)
	}
	return export.Table{
		Title:   c.cfg.Title + " Report",
		Sheet:   cases.Title(language.Spanish).String(c.cfg.Entity),
		Headers: c.Headers(),
		Rows:    rows,
	}
}

// Export renders the loaded items. It performs no network call.
func (c *Controller[T]) Export(format export.Format, now time.Time) (export.Document, error) {
	return export.Render(format, c.cfg.Entity, c.Table(), now)
}

func (c *Controller[T]) notify(ctx context.Context, level Level, title, text string) {
	c.notifier.Notify(ctx, Notice{Level: level, Title: title, Text: text})
}
