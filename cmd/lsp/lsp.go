/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp provides the lsp command for learnjq.
package lsp

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/internal/logger"
	lspserver "bennypowers.dev/learnjq/lsp"
)

// Cmd is the lsp cobra command.
var Cmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the jq language server over stdio",
	Long: `Run a language server for .jq files on stdin and stdout. It links builtins
to the jq manual, shows hover help, and reports syntax errors.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol.
	logger.SetOutput(io.Discard)

	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}
	return lspserver.New(lspserver.Options{Manual: ws.Manual}).RunStdio()
}
