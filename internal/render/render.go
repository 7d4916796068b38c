// Package render prints API results as tables or JSON.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/fatih/color"
)

// Tabular is a record with a fixed column set.
type Tabular interface {
	Header() []string
	Row() []string
}

// MultiRow is a value rendered as several rows under one header.
type MultiRow interface {
	Header() []string
	Rows() [][]string
}

// Renderer writes values in the configured output format.
type Renderer struct {
	w      io.Writer
	format config.OutputFormat
	header *color.Color
	faint  *color.Color
}

// New creates a renderer writing to w.
func New(w io.Writer, format config.OutputFormat, noColor bool) *Renderer {
	r := &Renderer{
		w:      w,
		format: format,
		header: color.New(color.Bold, color.FgCyan),
		faint:  color.New(color.Faint),
	}
	if noColor {
		r.header.DisableColor()
		r.faint.DisableColor()
	}
	return r
}

// JSONMode reports whether output is JSON.
func (r *Renderer) JSONMode() bool {
	return r.format == config.OutputJSON
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// Table writes an aligned table with a highlighted header line.
func (r *Renderer) Table(header []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(sanitize(row), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("format table: %w", err)
	}

	// color after alignment so escape codes do not count as width
	first, rest, _ := strings.Cut(buf.String(), "\n")
	if _, err := r.header.Fprintln(r.w, strings.TrimRight(first, " ")); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if _, err := io.WriteString(r.w, rest); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

// Line writes a plain message, suppressed in JSON mode.
func (r *Renderer) Line(format string, args ...any) {
	if r.JSONMode() {
		return
	}
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Hint writes a dimmed message, suppressed in JSON mode.
func (r *Renderer) Hint(format string, args ...any) {
	if r.JSONMode() {
		return
	}
	_, _ = r.faint.Fprintf(r.w, format+"\n", args...)
}

// Item renders one record: a two-column field table for Tabular values, the
// value's own rows for MultiRow, and JSON otherwise.
func Item[T any](r *Renderer, v T) error {
	if r.JSONMode() {
		return r.JSON(v)
	}
	switch t := any(v).(type) {
	case MultiRow:
		return r.Table(t.Header(), t.Rows())
	case Tabular:
		header, row := t.Header(), t.Row()
		rows := make([][]string, 0, len(header))
		for i, h := range header {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			rows = append(rows, []string{h, val})
		}
		return r.Table([]string{"FIELD", "VALUE"}, rows)
	}
	return r.JSON(v)
}

// List renders records as one table.
func List[T Tabular](r *Renderer, items []T) error {
	if r.JSONMode() {
		if items == nil {
			items = []T{}
		}
		return r.JSON(items)
	}
	var zero T
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Row())
	}
	return r.Table(zero.Header(), rows)
}

// Page renders a page of records followed by a position footer.
func Page[T Tabular](r *Renderer, p envelope.Page[T]) error {
	if r.JSONMode() {
		return r.JSON(p)
	}
	if len(p.Data) == 0 {
		r.Hint("No records (page %d, %d total)", p.Page, p.Total)
		return nil
	}
	if err := List(r, p.Data); err != nil {
		return err
	}
	r.Hint("Page %d of %d (%d total)", p.Page, max(p.TotalPages, 1), p.Total)
	return nil
}

// sanitize keeps cells on one line so rows stay aligned.
func sanitize(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "\t", " ")
		cell = strings.ReplaceAll(cell, "\n", " ")
		out[i] = cell
	}
	return out
}
