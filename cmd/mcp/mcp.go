/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command for learnjq.
package mcp

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/internal/logger"
	"bennypowers.dev/learnjq/mcpserver"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server over stdio",
	Long:  `Expose the stage catalog and filter evaluation as MCP tools on stdin and stdout.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	logger.SetOutput(io.Discard)

	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}
	srv := mcpserver.New(ws.Catalog, ws.Engine, mcpserver.Options{
		Messages: ws.Messages,
		Manual:   ws.Manual,
	})
	return srv.Run(cmd.Context())
}
