/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lsp

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
)

// diagnosticSource names learnjq in editor diagnostics.
const diagnosticSource = "learnjq"

// builtin is a builtin reference with its byte range in a document.
type builtin struct {
	name       string
	start, end int
}

func builtins(text string) []builtin {
	var out []builtin
	offset := 0
	for _, span := range highlight.Filter(text) {
		if span.IsFunction {
			out = append(out, builtin{name: span.FunctionName, start: offset, end: offset + len(span.Text)})
		}
		offset += len(span.Text)
	}
	return out
}

// DocumentLinks links every builtin in text to its manual section.
func DocumentLinks(text string, manual highlight.Manual) []protocol.DocumentLink {
	refs := builtins(text)
	links := make([]protocol.DocumentLink, 0, len(refs))
	for _, ref := range refs {
		target := protocol.DocumentUri(manual.URL(ref.name))
		tooltip := fmt.Sprintf("jq manual: %s", ref.name)
		links = append(links, protocol.DocumentLink{
			Range:   rangeOf(text, ref.start, ref.end),
			Target:  &target,
			Tooltip: &tooltip,
		})
	}
	return links
}

// HoverAt describes the builtin under pos, or returns nil.
func HoverAt(text string, pos protocol.Position, manual highlight.Manual) *protocol.Hover {
	offset := offsetAt(text, pos)
	for _, ref := range builtins(text) {
		if offset < ref.start || offset >= ref.end {
			continue
		}
		rng := rangeOf(text, ref.start, ref.end)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: fmt.Sprintf("**%s** (builtin)\n\n[jq manual](%s)", ref.name, manual.URL(ref.name)),
			},
			Range: &rng,
		}
	}
	return nil
}

// Diagnostics reports syntax errors in a jq program.
func Diagnostics(text string) []protocol.Diagnostic {
	err := engine.Parse(text)
	if err == nil {
		return []protocol.Diagnostic{}
	}

	message := err.Error()
	start, end := 0, len(text)
	var evalErr *engine.EvalError
	if errors.As(err, &evalErr) {
		if evalErr.Err != nil {
			message = evalErr.Err.Error()
		}
		if evalErr.Offset >= 0 {
			start = evalErr.Offset
			end = lineEnd(text, start)
		}
	}

	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource
	return []protocol.Diagnostic{{
		Range:    rangeOf(text, start, end),
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}}
}

func lineEnd(text string, offset int) int {
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(text)
}

func rangeOf(text string, start, end int) protocol.Range {
	return protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}
}

// positionAt converts a byte offset to an LSP position counted in UTF-16 units.
func positionAt(text string, offset int) protocol.Position {
	offset = max(0, min(offset, len(text)))
	var line, char protocol.UInteger
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += protocol.UInteger(utf16.RuneLen(r))
	}
	return protocol.Position{Line: line, Character: char}
}

// offsetAt converts an LSP position to a byte offset, clamping to the line end.
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	var units protocol.UInteger
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}
