/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/pipeline"
)

// Styles holds the lipgloss styles derived from a highlight theme.
type Styles struct {
	Tokens   map[highlight.Kind]lipgloss.Style
	Function lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Title    lipgloss.Style
	Pane     lipgloss.Style
	Label    lipgloss.Style
	Match    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds styles from theme.
func NewStyles(theme highlight.Theme) Styles {
	tokens := make(map[highlight.Kind]lipgloss.Style, len(highlight.Kinds()))
	for _, kind := range highlight.Kinds() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Color(kind)))
		if theme.Bold[kind] {
			style = style.Bold(true)
		}
		tokens[kind] = style
	}
	muted := lipgloss.Color(theme.Muted())
	return Styles{
		Tokens:   tokens,
		Function: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Function)).Underline(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		Muted:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Color(highlight.KindKey))),
		Pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(theme.Color(highlight.KindPunctuation))),
		Label:    lipgloss.NewStyle().Bold(true),
		Match:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Color(highlight.KindString))).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(muted),
	}
}

// JSON colours a JSON document token by token.
func (s Styles) JSON(src string) string {
	var b strings.Builder
	for _, tok := range highlight.JSON(src) {
		if tok.Kind == highlight.KindText {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(s.Tokens[tok.Kind].Render(tok.Text))
	}
	return b.String()
}

// Filter underlines builtin names in a filter.
func (s Styles) Filter(src string) string {
	var b strings.Builder
	for _, span := range highlight.Filter(src) {
		if span.IsFunction {
			b.WriteString(s.Function.Render(span.Text))
			continue
		}
		b.WriteString(span.Text)
	}
	return b.String()
}

// Outcome renders an evaluation outcome.
func (s Styles) Outcome(out pipeline.Outcome) string {
	switch out.Kind {
	case pipeline.KindOK:
		return s.JSON(out.Text)
	case pipeline.KindError:
		return s.Error.Render(out.Text)
	default:
		return s.Muted.Render(out.Text)
	}
}
