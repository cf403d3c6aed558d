/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stage holds the exercise catalog: each stage pairs an input
// document with the output a learner's filter should produce.
package stage

import (
	"encoding/json"
	"fmt"

	"bennypowers.dev/learnjq/internal/jsontext"
)

// Stage is one exercise. It is immutable once created.
type Stage struct {
	id            string
	title         string
	description   string
	defaultFilter string
	source        string

	input    json.RawMessage
	expected json.RawMessage

	inputText    string
	expectedText string
	// want is the decoded expected output Matches compares against.
	want any
}

// Fields holds the values a Stage is built from.
type Fields struct {
	ID            string
	Title         string
	Description   string
	DefaultFilter string
	// Source names where the stage was loaded from, for diagnostics.
	Source string
	// Input and Expected are JSON documents. Comments and trailing commas
	// are accepted.
	Input    []byte
	Expected []byte
}

// New validates f and builds a Stage. A missing title falls back to the ID.
func New(f Fields) (*Stage, error) {
	if f.ID == "" {
		return nil, fmt.Errorf("%w: id (%s)", ErrMissingField, f.Source)
	}
	if len(f.Input) == 0 {
		return nil, fmt.Errorf("stage %s: %w: input", f.ID, ErrMissingField)
	}
	if len(f.Expected) == 0 {
		return nil, fmt.Errorf("stage %s: %w: expected", f.ID, ErrMissingField)
	}

	inputText, err := jsontext.Indent(f.Input)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w: input: %w", f.ID, ErrInvalidDocument, err)
	}
	expectedText, err := jsontext.Indent(f.Expected)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w: expected: %w", f.ID, ErrInvalidDocument, err)
	}
	want, err := jsontext.Decode([]byte(expectedText))
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w: expected: %w", f.ID, ErrInvalidDocument, err)
	}

	title := f.Title
	if title == "" {
		title = f.ID
	}

	return &Stage{
		id:            f.ID,
		title:         title,
		description:   f.Description,
		defaultFilter: f.DefaultFilter,
		source:        f.Source,
		input:         json.RawMessage(inputText),
		expected:      json.RawMessage(expectedText),
		inputText:     inputText,
		expectedText:  expectedText,
		want:          want,
	}, nil
}

// ID returns the stage identifier, such as "001".
func (s *Stage) ID() string { return s.id }

// Title returns the display title.
func (s *Stage) Title() string { return s.title }

// Description returns the task description.
func (s *Stage) Description() string { return s.description }

// DefaultFilter returns the filter a session starts with on this stage.
func (s *Stage) DefaultFilter() string { return s.defaultFilter }

// Source returns where the stage was loaded from.
func (s *Stage) Source() string { return s.source }

// InputText returns the input document indented with two spaces, in the
// fixture's key order.
func (s *Stage) InputText() string { return s.inputText }

// ExpectedText returns the expected output indented with two spaces, in the
// fixture's key order.
func (s *Stage) ExpectedText() string { return s.expectedText }

// Input returns the input document as JSON.
func (s *Stage) Input() json.RawMessage { return s.input }

// Expected returns the expected output as JSON.
func (s *Stage) Expected() json.RawMessage { return s.expected }

// Matches reports whether output is a single JSON value equal to the expected
// output. Object key order, whitespace and number spelling are ignored.
func (s *Stage) Matches(output string) bool {
	values, err := jsontext.DecodeStream(output)
	if err != nil || len(values) != 1 {
		return false
	}
	return jsontext.Equal(values[0], s.want)
}

// Summary is the JSON view of a stage.
type Summary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	DefaultFilter string          `json:"defaultFilter"`
	Input         json.RawMessage `json:"input,omitempty"`
	Expected      json.RawMessage `json:"expected,omitempty"`
}

// Summary returns the stage's JSON view. Documents are included when
// withDocuments is true.
func (s *Stage) Summary(withDocuments bool) Summary {
	sum := Summary{
		ID:            s.id,
		Title:         s.title,
		Description:   s.description,
		DefaultFilter: s.defaultFilter,
	}
	if withDocuments {
		sum.Input = s.input
		sum.Expected = s.expected
	}
	return sum
}
