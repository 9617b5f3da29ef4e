package crudhttp

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/stockdesk/stockdesk/internal/crud"
)

// Field is one input of an edit form.
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Step     string
	Options  []Option
}

// Option is one entry of a select field.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Lookups holds the read-only reference lists shown as dropdowns, keyed by
// the field they feed.
type Lookups map[string][]Option

// LookupFunc loads the reference lists of a screen. Failures are logged and
// leave the affected list empty.
type LookupFunc func(ctx context.Context, logger *slog.Logger) Lookups

// Form binds an entity to its HTML inputs.
type Form[T any] interface {
	Fields(record T, lookups Lookups) []Field
	// Bind copies the posted values into record. Malformed numbers are
	// reported as a *crud.ValidationError.
	Bind(values url.Values, record *T) error
}

// Options builds select options from items.
func Options[T any](items []T, value func(T) int64, label func(T) string) []Option {
	out := make([]Option, 0, len(items))
	for _, item := range items {
		out = append(out, Option{Value: strconv.FormatInt(value(item), 10), Label: label(item)})
	}
	return out
}

// Select returns a copy of options with the entry matching id marked.
func Select(options []Option, id int64) []Option {
	want := strconv.FormatInt(id, 10)
	out := make([]Option, len(options))
	for i, opt := range options {
		opt.Selected = opt.Value == want
		out[i] = opt
	}
	return out
}

// FormatID renders an optional id, empty for nil.
func FormatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// ParseID reads the hidden id input. A blank value yields nil.
func ParseID(values url.Values) (*int64, error) {
	raw := strings.TrimSpace(values.Get("id"))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidNumber("id")
	}
	return &id, nil
}

// ParseRef reads a reference select. A blank value yields zero, which the
// entity validation rejects.
func ParseRef(values url.Values, name string) (int64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidNumber(name)
	}
	return id, nil
}

// ParseInt reads an integer input. A blank value yields zero.
func ParseInt(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidNumber(name)
	}
	return n, nil
}

// LabelFor returns the label of the option with id, empty when absent.
func LabelFor(options []Option, id int64) string {
	want := strconv.FormatInt(id, 10)
	for _, opt := range options {
		if opt.Value == want {
			return opt.Label
		}
	}
	return ""
}

func invalidNumber(field string) error {
	return &crud.ValidationError{Message: "Please enter a valid number for " + field + ".", Fields: []string{field}}
}
