/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load assembles a learnjq workspace: its config, stage catalog,
// engine adapter, and message printer.
package load

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"bennypowers.dev/learnjq/config"
	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/fs"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/stage"
)

// Options configures how a workspace is loaded.
type Options struct {
	// Root is the directory searched for .config/learn-jq.*. Defaults to ".".
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Fetcher resolves http(s) fixture references. Defaults to an HTTPFetcher.
	Fetcher Fetcher

	// FetchTimeout bounds each fixture fetch. Defaults to DefaultTimeout.
	FetchTimeout time.Duration

	// Config overrides the config file when set.
	Config *config.Config

	// Lang overrides the config language when set.
	Lang string

	// Engine overrides the config engine kind when set.
	Engine string
}

// Workspace is everything a learnjq surface needs.
type Workspace struct {
	Root     string
	FS       fs.FileSystem
	Config   *config.Config
	Catalog  *stage.Catalog
	Engine   *engine.Adapter
	Messages *i18n.Printer
	Manual   highlight.Manual

	fetcher Fetcher
}

// Load loads the workspace rooted at opts.Root.
//
// The loading process:
//  1. Loads config from .config/learn-jq.{yaml,yml,json} (optional)
//  2. Applies Options overrides
//  3. Builds the catalog: bundled stages, then config-declared stages
//  4. Creates the lazily loaded engine adapter
func Load(ctx context.Context, opts Options) (*Workspace, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(filesystem, root)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if cfg == nil {
			cfg = config.Default()
		}
	}
	if opts.Lang != "" {
		cfg.Lang = opts.Lang
	}
	if opts.Engine != "" {
		cfg.Engine.Kind = opts.Engine
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(DefaultMaxSize)
	}
	timeout := opts.FetchTimeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	fetcher = timeoutFetcher{next: fetcher, timeout: timeout}

	ws := &Workspace{
		Root:     root,
		FS:       filesystem,
		Config:   cfg,
		Messages: i18n.New(cfg.Lang),
		Manual:   highlight.DefaultManual,
		fetcher:  fetcher,
	}
	if cfg.ManualURL != "" {
		ws.Manual = highlight.Manual{Base: cfg.ManualURL}
	}

	catalog, err := ws.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ws.Catalog = catalog
	ws.Engine = engine.NewAdapter(Loader(cfg, root, filesystem))

	return ws, nil
}

// LoadCatalog rebuilds the catalog from the bundled stages and the config.
func (ws *Workspace) LoadCatalog(ctx context.Context) (*stage.Catalog, error) {
	var stages []*stage.Stage
	if ws.Config.BuiltinEnabled() {
		builtin, err := stage.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading bundled stages: %w", err)
		}
		stages = append(stages, builtin...)
	}

	sources, err := ws.Config.ResolveStages(ws.FS, ws.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving stages: %w", err)
	}

	loader := &stage.Loader{FS: ws.FS, Fetcher: ws.fetcher}
	for _, src := range sources {
		if src.Inline != nil {
			s, err := loader.LoadDefinition(ctx, stage.Definition{
				ID:            src.Inline.ID,
				Title:         src.Inline.Title,
				Description:   src.Inline.Description,
				Input:         src.Inline.Input,
				Expected:      src.Inline.Expected,
				DefaultFilter: src.Inline.DefaultFilter,
			}, ws.Root, config.Path(ws.FS, ws.Root))
			if err != nil {
				return nil, err
			}
			stages = append(stages, s)
			continue
		}

		loaded, err := loader.LoadFile(ctx, src.File)
		if err != nil {
			return nil, err
		}
		stages = append(stages, loaded...)
	}

	return stage.NewCatalog(stages...)
}

// Loader returns the engine loader selected by cfg.
func Loader(cfg *config.Config, root string, filesystem fs.FileSystem) engine.Loader {
	if cfg.Engine.Kind == config.EngineJQ {
		return engine.ExecLoader(engine.ExecOptions{Path: cfg.Engine.JQPath})
	}
	return engine.GojqLoader(engine.GojqOptions{
		LibraryPaths: cfg.LibraryPaths(root),
		FS:           filesystem,
	})
}
