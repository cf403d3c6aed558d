/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package web serves the browser presentation shell: server-rendered stage
// pages, a websocket per live session, and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/stage"
)

//go:embed assets
var assetFS embed.FS

// Options configures a Server.
type Options struct {
	// Engine evaluates filters for every session.
	Engine engine.Engine

	// Messages selects the UI language. Defaults to Japanese.
	Messages *i18n.Printer

	// Manual is the jq manual that function links point at.
	Manual highlight.Manual

	// Theme colours the token classes. Defaults to highlight.DefaultTheme.
	Theme *highlight.Theme

	// Debounce is the quiet period of live sessions.
	Debounce time.Duration

	// Logger receives request and session logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Server is an http.Handler for the presentation shell.
type Server struct {
	catalog  atomic.Pointer[stage.Catalog]
	opts     Options
	render   *renderer
	theme    highlight.Theme
	log      *zap.Logger
	mux      *http.ServeMux
	handler  http.Handler
	upgrader websocket.Upgrader

	// sessions tracks live websocket handlers.
	sessions sync.WaitGroup
}

// New creates a server for catalog.
func New(catalog *stage.Catalog, opts Options) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("web: nil catalog")
	}
	if opts.Messages == nil {
		opts.Messages = i18n.New("")
	}
	theme := highlight.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	render, err := newRenderer(opts.Messages, opts.Manual)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		opts:   opts,
		render: render,
		theme:  theme,
		log:    log,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.catalog.Store(catalog)
	s.routes()
	s.handler = s.logRequests(s.mux)
	return s, nil
}

func (s *Server) routes() {
	assets, _ := fs.Sub(assetFS, "assets")

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /stages/{id}", s.handleStage)
	s.mux.HandleFunc("GET /live", s.handleLive)
	s.mux.HandleFunc("GET /api/stages", s.handleListStages)
	s.mux.HandleFunc("GET /api/stages/{id}", s.handleGetStage)
	s.mux.HandleFunc("POST /api/evaluate", s.handleEvaluate)
	s.mux.HandleFunc("POST /api/highlight", s.handleHighlight)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /assets/theme.css", s.handleThemeCSS)
	s.mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(assets)))
}

// Catalog returns the catalog new sessions start with.
func (s *Server) Catalog() *stage.Catalog {
	return s.catalog.Load()
}

// SetCatalog replaces the catalog. Live sessions keep the catalog they
// started with until they reconnect.
func (s *Server) SetCatalog(catalog *stage.Catalog) {
	if catalog != nil {
		s.catalog.Store(catalog)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	var err error
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-errCh
	s.sessions.Wait()
	return err
}
