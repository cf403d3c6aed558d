/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package engine adapts third-party jq implementations behind a single
// evaluate operation.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Engine evaluates jq filters. Implementations must be safe for concurrent use.
type Engine interface {
	// Evaluate runs filter against document and returns every value it emits.
	// document is a decoded JSON value or a Document.
	Evaluate(ctx context.Context, document any, filter string) ([]any, error)
}

// Document is a parsed input that keeps its source text. Engines that read
// JSON text use Raw so the input's key order and number spelling survive;
// in-process engines use Value.
type Document struct {
	Value any
	Raw   []byte
}

// value unwraps a Document, returning any other input unchanged.
func value(document any) any {
	if d, ok := document.(Document); ok {
		return d.Value
	}
	return document
}

// Loader instantiates an Engine. It is called at most once per Adapter.
type Loader func(ctx context.Context) (Engine, error)

// Adapter lazily loads an engine on first use and shares it afterwards.
//
// A failed load is remembered and never retried; every later Evaluate
// reports it as ErrLoad.
type Adapter struct {
	load Loader

	once   sync.Once
	engine Engine
	err    error
	loaded atomic.Bool
}

// NewAdapter creates an adapter that will call load on first evaluation.
func NewAdapter(load Loader) *Adapter {
	return &Adapter{load: load}
}

// handle returns the loaded engine, loading it if this is the first call.
// Concurrent first callers wait for the same load.
func (a *Adapter) handle(ctx context.Context) (Engine, error) {
	a.once.Do(func() {
		if a.load == nil {
			a.err = fmt.Errorf("no loader configured")
			return
		}
		// The load outlives the request that triggered it.
		a.engine, a.err = a.load(context.WithoutCancel(ctx))
		if a.err == nil && a.engine == nil {
			a.err = fmt.Errorf("loader returned no engine")
		}
		a.loaded.Store(a.err == nil)
	})
	return a.engine, a.err
}

// Evaluate implements Engine, loading the underlying engine on first use.
func (a *Adapter) Evaluate(ctx context.Context, document any, filter string) ([]any, error) {
	eng, err := a.handle(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return eng.Evaluate(ctx, document, filter)
}

// Load forces the engine to load and returns the load error, if any.
func (a *Adapter) Load(ctx context.Context) error {
	_, err := a.handle(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return nil
}

// Loaded reports whether an engine was loaded successfully. It never triggers a load.
func (a *Adapter) Loaded() bool {
	return a.loaded.Load()
}
