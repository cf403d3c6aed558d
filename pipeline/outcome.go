/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import "bennypowers.dev/learnjq/internal/i18n"

// Kind tags an Outcome.
type Kind string

const (
	// KindPlaceholder means there is no result yet.
	KindPlaceholder Kind = "placeholder"
	// KindRunning is the placeholder shown while the engine works.
	KindRunning Kind = "running"
	// KindOK holds the serialised filter output.
	KindOK Kind = "ok"
	// KindError holds a parse or engine diagnostic.
	KindError Kind = "error"
)

// Outcome is the render-ready result of one evaluation cycle.
type Outcome struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// OK returns a successful outcome.
func OK(text string) Outcome {
	return Outcome{Kind: KindOK, Text: text}
}

// Failed returns an error outcome.
func Failed(message string) Outcome {
	return Outcome{Kind: KindError, Text: message}
}

// Placeholder returns the localised "no result yet" outcome.
func Placeholder(msgs *i18n.Printer) Outcome {
	return Outcome{Kind: KindPlaceholder, Text: printer(msgs).T(i18n.Placeholder)}
}

// Running returns the localised "executing" outcome.
func Running(msgs *i18n.Printer) Outcome {
	return Outcome{Kind: KindRunning, Text: printer(msgs).T(i18n.Running)}
}

// IsError reports whether o is an error outcome.
func (o Outcome) IsError() bool {
	return o.Kind == KindError
}

// Pending reports whether o is a placeholder or running outcome.
func (o Outcome) Pending() bool {
	return o.Kind == KindPlaceholder || o.Kind == KindRunning
}

func printer(msgs *i18n.Printer) *i18n.Printer {
	if msgs == nil {
		return i18n.New("")
	}
	return msgs
}
