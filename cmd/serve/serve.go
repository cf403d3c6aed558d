/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package serve provides the serve command for learnjq.
package serve

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/config"
	"bennypowers.dev/learnjq/internal/logger"
	"bennypowers.dev/learnjq/load"
	"bennypowers.dev/learnjq/stage"
	"bennypowers.dev/learnjq/web"
)

// Cmd is the serve cobra command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser interface",
	Long: `Serve the stage pages and live websocket sessions. Every keystroke in the
filter box is evaluated after the debounce period; with --watch, edits to the
config or stage files reload the catalog without restarting.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String(workspace.KeyAddr, config.DefaultAddr, "Listen address")
	Cmd.Flags().Duration(workspace.KeyDebounce, config.DefaultDebounce, "Quiet period before a filter is evaluated")
	Cmd.Flags().Bool("watch", false, "Reload stages when workspace files change")
	workspace.Bind(workspace.KeyAddr, Cmd.Flags().Lookup(workspace.KeyAddr))
	workspace.Bind(workspace.KeyDebounce, Cmd.Flags().Lookup(workspace.KeyDebounce))
}

func run(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	ctx := cmd.Context()

	ws, err := workspace.Load(ctx)
	if err != nil {
		return err
	}

	srv, err := web.New(ws.Catalog, web.Options{
		Engine:   ws.Engine,
		Messages: ws.Messages,
		Manual:   ws.Manual,
		Debounce: workspace.Debounce(ws),
		Logger:   logger.L(),
	})
	if err != nil {
		return err
	}

	if watch {
		w, err := ws.Watch(ctx, load.DefaultWatchDebounce, func(c *stage.Catalog) {
			srv.SetCatalog(c)
		})
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
	}

	addr := workspace.Addr(ws)
	logger.Info("serving %d stages on %s", ws.Catalog.Len(), addr)
	return srv.ListenAndServe(ctx, addr)
}
