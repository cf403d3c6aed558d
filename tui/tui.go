/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tui is the terminal presentation shell.
package tui

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/session"
	"bennypowers.dev/learnjq/stage"
)

// Options configures Run.
type Options struct {
	Messages *i18n.Printer
	Theme    *highlight.Theme
	Debounce time.Duration

	// StageID selects the first stage. Empty means the catalog default.
	StageID string

	// ProgramOptions are passed to tea.NewProgram.
	ProgramOptions []tea.ProgramOption
}

// Run starts the play screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, catalog *stage.Catalog, eval engine.Engine, opts Options) error {
	msgs := opts.Messages
	if msgs == nil {
		msgs = i18n.New("")
	}
	theme := highlight.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	var program atomic.Pointer[tea.Program]
	sess := session.New(catalog, eval, func(u pipeline.Update) {
		if p := program.Load(); p != nil {
			p.Send(outcomeMsg(u))
		}
	}, session.Options{Debounce: opts.Debounce, Messages: msgs})
	defer sess.Close()

	if opts.StageID != "" {
		if _, err := sess.SelectStage(opts.StageID); err != nil {
			return err
		}
	}

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	p := tea.NewProgram(newModel(sess, msgs, NewStyles(theme)), programOpts...)
	program.Store(p)
	_, err := p.Run()
	return err
}
