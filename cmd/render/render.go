/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/jsontext"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// Row holds computed display values for a single stage.
type Row struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Filter string `json:"defaultFilter"`
	Source string `json:"source,omitempty"`
}

// ComputeRows transforms stages into display rows.
func ComputeRows(stages []*stage.Stage) []Row {
	rows := make([]Row, 0, len(stages))
	for _, st := range stages {
		rows = append(rows, Row{
			ID:     st.ID(),
			Title:  st.Title(),
			Filter: st.DefaultFilter(),
			Source: st.Source(),
		})
	}
	return rows
}

// ColumnWidths calculates the display width needed for the id and title columns.
func ColumnWidths(rows []Row) (id, title int) {
	id, title = 2, 5 // minimums for headers
	for _, r := range rows {
		id = max(id, runewidth.StringWidth(r.ID))
		title = max(title, runewidth.StringWidth(r.Title))
	}
	return
}

// Table renders rows as an aligned table.
func Table(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	idW, titleW := ColumnWidths(rows)
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
			runewidth.FillRight(r.ID, idW),
			runewidth.FillRight(r.Title, titleW),
			r.Filter,
		); err != nil {
			return err
		}
	}
	return nil
}

// Names renders just the stage IDs, one per line.
func Names(w io.Writer, rows []Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.ID); err != nil {
			return err
		}
	}
	return nil
}

// JSON renders v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ColorEnabled resolves a --color mode (auto, always, never) for f.
// Auto enables colour on terminals unless NO_COLOR is set.
func ColorEnabled(mode string, f *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" || f == nil {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: want auto, always, or never", mode)
	}
}

// Painter colours JSON and filter text with 24-bit ANSI escapes.
type Painter struct {
	Theme   highlight.Theme
	Enabled bool
}

// Foreground returns the ANSI escape that sets a CSS colour as the foreground.
func Foreground(color string) string {
	c, err := csscolorparser.Parse(color)
	if err != nil {
		return ""
	}
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

const reset = "\x1b[0m"

func (p Painter) paint(color, text string, bold, underline bool) string {
	if !p.Enabled || text == "" {
		return text
	}
	var b strings.Builder
	b.WriteString(Foreground(color))
	if bold {
		b.WriteString("\x1b[1m")
	}
	if underline {
		b.WriteString("\x1b[4m")
	}
	b.WriteString(text)
	b.WriteString(reset)
	return b.String()
}

// JSON colours a JSON document.
func (p Painter) JSON(src string) string {
	if !p.Enabled {
		return src
	}
	var b strings.Builder
	for _, tok := range highlight.JSON(src) {
		if tok.Kind == highlight.KindText {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(p.paint(p.Theme.Color(tok.Kind), tok.Text, p.Theme.Bold[tok.Kind], false))
	}
	return b.String()
}

// Filter underlines builtins in a jq filter.
func (p Painter) Filter(src string) string {
	if !p.Enabled {
		return src
	}
	var b strings.Builder
	for _, span := range highlight.Filter(src) {
		if span.IsFunction {
			b.WriteString(p.paint(p.Theme.Function, span.Text, false, true))
			continue
		}
		b.WriteString(span.Text)
	}
	return b.String()
}

// Outcome renders an evaluation outcome.
func (p Painter) Outcome(out pipeline.Outcome) string {
	switch out.Kind {
	case pipeline.KindOK:
		return p.JSON(out.Text)
	case pipeline.KindError:
		return p.paint(p.Theme.Error, out.Text, false, false)
	default:
		return p.paint(p.Theme.Muted(), out.Text, false, false)
	}
}

// Diff reports the structural difference between the expected document and an
// output stream, or "" when they are equal. Key order and number spelling are
// not differences.
func Diff(expected, output string) (string, error) {
	want, err := jsontext.DecodeStream(expected)
	if err != nil {
		return "", fmt.Errorf("expected: %w", err)
	}
	got, err := jsontext.DecodeStream(output)
	if err != nil {
		return "", fmt.Errorf("output: %w", err)
	}
	return cmp.Diff(want, got, jsontext.ValueOptions), nil
}
