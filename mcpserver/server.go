/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcpserver exposes the stage catalog and the jq engine as MCP tools.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/internal/version"
	"bennypowers.dev/learnjq/stage"
)

// Name is the implementation name reported to clients.
const Name = "learnjq"

// Options configures a Server.
type Options struct {
	Messages *i18n.Printer
	Manual   highlight.Manual
}

// Server wraps an MCP server with the learnjq tools registered.
type Server struct {
	server  *mcp.Server
	catalog *stage.Catalog
	eval    engine.Engine
	opts    Options
}

// New creates a server for catalog, evaluating with eval.
func New(catalog *stage.Catalog, eval engine.Engine, opts Options) *Server {
	if opts.Messages == nil {
		opts.Messages = i18n.New("")
	}
	s := &Server{
		server:  mcp.NewServer(&mcp.Implementation{Name: Name, Version: version.Get()}, nil),
		catalog: catalog,
		eval:    eval,
		opts:    opts,
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_stages",
		Description: "List the jq practice stages with their titles and default filters.",
	}, s.listStages)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_stage",
		Description: "Get one stage, including its input document and expected output.",
	}, s.getStage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_filter",
		Description: "Run a jq filter against a stage's input and report whether the output matches the expected output.",
	}, s.evaluateFilter)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "highlight_filter",
		Description: "Split a jq filter into spans and link each builtin to the jq manual.",
	}, s.highlightFilter)
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves over stdin and stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
