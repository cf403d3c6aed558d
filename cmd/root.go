/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for learnjq.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/check"
	"bennypowers.dev/learnjq/cmd/lsp"
	"bennypowers.dev/learnjq/cmd/mcp"
	"bennypowers.dev/learnjq/cmd/play"
	"bennypowers.dev/learnjq/cmd/run"
	"bennypowers.dev/learnjq/cmd/serve"
	"bennypowers.dev/learnjq/cmd/stages"
	"bennypowers.dev/learnjq/cmd/version"
	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "learnjq",
	Short: "Learn jq by solving stages",
	Long: `learnjq is a jq practice tool. Each stage pairs an input JSON document with
the output a filter should produce; write filters in the browser, the terminal,
or your editor and compare the result.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.SetLevel(workspace.String(workspace.KeyLogLevel))
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	workspace.PersistentFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(lsp.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(play.Cmd)
	rootCmd.AddCommand(run.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(stages.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
