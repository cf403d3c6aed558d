/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package play provides the play command for learnjq.
package play

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/internal/logger"
	"bennypowers.dev/learnjq/tui"
)

// Cmd is the play cobra command.
var Cmd = &cobra.Command{
	Use:   "play [stage]",
	Short: "Solve stages in the terminal",
	Long:  `Open the terminal interface. Type a filter, ctrl+n and ctrl+p switch stages, esc quits.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}

	opts := tui.Options{
		Messages: ws.Messages,
		Debounce: workspace.Debounce(ws),
	}
	if len(args) > 0 {
		opts.StageID = args[0]
	}

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	return tui.Run(cmd.Context(), ws.Catalog, ws.Engine, opts)
}
