/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pipeline debounces filter edits, evaluates them through an engine,
// and publishes only the outcome of the newest input.
package pipeline

import (
	"context"
	"sync"
	"time"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/internal/i18n"
)

// DefaultDebounce is the quiet period before an edit is evaluated.
const DefaultDebounce = 250 * time.Millisecond

// Update is one published outcome.
type Update struct {
	Generation uint64  `json:"generation"`
	Outcome    Outcome `json:"outcome"`
}

// Options configures a Pipeline.
type Options struct {
	// Debounce is the quiet period. Zero means DefaultDebounce; use a
	// negative value to evaluate without delay.
	Debounce time.Duration

	// Messages localises placeholder and error text. Defaults to Japanese.
	Messages *i18n.Printer
}

// Pipeline owns the evaluation state machine for one session.
//
// Every Submit starts a new generation. Results are published only while their
// generation is current, so a slow evaluation never overwrites a newer one.
// The publish callback runs on pipeline goroutines, one call at a time, and
// may call back into the Pipeline.
type Pipeline struct {
	eval      engine.Engine
	publish   func(Update)
	msgs      *i18n.Printer
	debouncer *Debouncer

	mu         sync.Mutex
	generation uint64
	input      Input
	outcome    Outcome
	cancel     context.CancelFunc
	closed     bool

	publishMu sync.Mutex
}

// New creates a pipeline. publish may be nil.
func New(eval engine.Engine, publish func(Update), opts Options) *Pipeline {
	delay := opts.Debounce
	switch {
	case delay == 0:
		delay = DefaultDebounce
	case delay < 0:
		delay = 0
	}
	msgs := printer(opts.Messages)
	return &Pipeline{
		eval:      eval,
		publish:   publish,
		msgs:      msgs,
		debouncer: NewDebouncer(delay),
		outcome:   Placeholder(msgs),
	}
}

// Submit records a new effective input and schedules its evaluation after the
// quiet period. It returns the input's generation.
func (p *Pipeline) Submit(in Input) uint64 {
	p.mu.Lock()
	if p.closed {
		defer p.mu.Unlock()
		return p.generation
	}
	p.generation++
	gen := p.generation
	p.input = in
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	p.debouncer.Debounce(func() {
		p.run(ctx, gen, in)
	})
	return gen
}

// Reset sets the outcome to the placeholder and submits in. The placeholder is
// returned rather than published.
func (p *Pipeline) Reset(in Input) Outcome {
	p.mu.Lock()
	p.outcome = Placeholder(p.msgs)
	out := p.outcome
	p.mu.Unlock()

	p.Submit(in)
	return out
}

// Outcome returns the current outcome.
func (p *Pipeline) Outcome() Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Input returns the most recently submitted input.
func (p *Pipeline) Input() Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// Generation returns the current generation.
func (p *Pipeline) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Messages returns the printer used for outcome text.
func (p *Pipeline) Messages() *i18n.Printer {
	return p.msgs
}

// Close stops pending work and waits for running evaluations to return.
// Nothing is published after Close returns.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.debouncer.Stop()
	p.debouncer.Wait()
}

func (p *Pipeline) run(ctx context.Context, gen uint64, in Input) {
	if !p.current(gen) {
		return
	}
	out := evaluate(ctx, p.eval, in, p.msgs, func(running Outcome) {
		p.apply(gen, running)
	})
	p.apply(gen, out)
}

func (p *Pipeline) current(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && gen == p.generation
}

// apply stores and publishes out if gen is still current.
func (p *Pipeline) apply(gen uint64, out Outcome) bool {
	p.publishMu.Lock()
	defer p.publishMu.Unlock()

	p.mu.Lock()
	if p.closed || gen != p.generation {
		p.mu.Unlock()
		return false
	}
	p.outcome = out
	p.mu.Unlock()

	if p.publish != nil {
		p.publish(Update{Generation: gen, Outcome: out})
	}
	return true
}
