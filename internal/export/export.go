// Package export renders a listing into downloadable tabular documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format identifies an output document type.
type Format string

const (
	// FormatPDF renders a titled grid table.
	FormatPDF Format = "pdf"
	// FormatXLSX renders a single-sheet workbook.
	FormatXLSX Format = "xlsx"
)

// TimestampLayout sorts lexicographically in chronological order.
const TimestampLayout = "2006-01-02_15-04-05"

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("export: unknown format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatXLSX}
}

// ParseFormat accepts the canonical names plus the aliases used by the UI.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// Extension returns the file extension without dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served with the document.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Cell is one table value. Text is what the PDF shows; Value, when set, is
// the typed value written to the spreadsheet.
type Cell struct {
	Text  string
	Value any
}

// Text builds a plain text cell.
func Text(s string) Cell {
	return Cell{Text: s}
}

// Table is a titled grid of cells.
type Table struct {
	Title   string
	Sheet   string
	Headers []string
	Rows    [][]Cell
}

// Document is a rendered export ready to be served or stored.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Filename returns entity_YYYY-MM-DD_HH-mm-ss.ext for now.
func Filename(entity string, f Format, now time.Time) string {
	return entity + "_" + now.Format(TimestampLayout) + "." + f.Extension()
}

// Render produces the document for table in format f.
func Render(f Format, entity string, table Table, now time.Time) (Document, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPDF:
		err = WritePDF(&buf, table)
	case FormatXLSX:
		err = WriteXLSX(&buf, table)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return Document{}, fmt.Errorf("export %s %s: %w", entity, f, err)
	}
	return Document{
		Filename:    Filename(entity, f, now),
		ContentType: f.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// Store writes the document into dir and returns the full path.
func (d Document) Store(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, d.Filename)
	if err := os.WriteFile(path, d.Body, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
