/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp is a language server for jq programs. It links builtins to the
// jq manual and reports syntax errors as diagnostics.
package lsp

import (
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/logger"
	"bennypowers.dev/learnjq/internal/version"
	"bennypowers.dev/learnjq/pipeline"
)

// Name is the server name reported to clients.
const Name = "learnjq"

// DefaultDiagnosticDelay is the quiet period before diagnostics are published.
const DefaultDiagnosticDelay = 300 * time.Millisecond

// Options configures a Server.
type Options struct {
	Manual highlight.Manual

	// DiagnosticDelay is the quiet period after an edit. Zero means
	// DefaultDiagnosticDelay; negative publishes without delay.
	DiagnosticDelay time.Duration
}

// Server holds open documents and their pending diagnostics.
type Server struct {
	handler protocol.Handler
	manual  highlight.Manual
	delay   time.Duration

	mu         sync.Mutex
	docs       map[protocol.DocumentUri]string
	debouncers map[protocol.DocumentUri]*pipeline.Debouncer
}

// New creates a server.
func New(opts Options) *Server {
	delay := opts.DiagnosticDelay
	switch {
	case delay == 0:
		delay = DefaultDiagnosticDelay
	case delay < 0:
		delay = 0
	}
	s := &Server{
		manual:     opts.Manual,
		delay:      delay,
		docs:       make(map[protocol.DocumentUri]string),
		debouncers: make(map[protocol.DocumentUri]*pipeline.Debouncer),
	}
	s.handler = protocol.Handler{
		Initialize:               s.initialize,
		Initialized:              s.initialized,
		Shutdown:                 s.shutdown,
		SetTrace:                 s.setTrace,
		TextDocumentDidOpen:      s.didOpen,
		TextDocumentDidChange:    s.didChange,
		TextDocumentDidClose:     s.didClose,
		TextDocumentHover:        s.hover,
		TextDocumentDocumentLink: s.documentLink,
	}
	return s
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	defer s.Close()
	return server.NewServer(&s.handler, Name, false).RunStdio()
}

// Close drops pending diagnostics and waits for running ones.
func (s *Server) Close() {
	s.mu.Lock()
	debouncers := s.debouncers
	s.debouncers = make(map[protocol.DocumentUri]*pipeline.Debouncer)
	s.mu.Unlock()

	for _, d := range debouncers {
		d.Stop()
		d.Wait()
	}
}

// Document returns the text of an open document.
func (s *Server) Document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	openClose := true
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
	}
	v := version.Get()
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &v,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	logger.Debug("lsp initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.Close()
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// Full sync: the last change carries the whole document.
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			s.update(ctx, params.TextDocument.URI, c.Text)
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				s.update(ctx, params.TextDocument.URI, c.Text)
			}
		}
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	d := s.debouncers[uri]
	delete(s.debouncers, uri)
	s.mu.Unlock()

	if d != nil {
		d.Stop()
		d.Wait()
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) hover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.Document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return HoverAt(text, params.Position, s.manual), nil
}

func (s *Server) documentLink(ctx *glsp.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	text, ok := s.Document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return DocumentLinks(text, s.manual), nil
}

// update stores text and schedules its diagnostics.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	d, ok := s.debouncers[uri]
	if !ok {
		d = pipeline.NewDebouncer(s.delay)
		s.debouncers[uri] = d
	}
	s.mu.Unlock()

	notify := ctx.Notify
	d.Debounce(func() {
		if current, ok := s.Document(uri); !ok || current != text {
			return
		}
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: Diagnostics(text),
		})
	})
}
