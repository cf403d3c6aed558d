/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stages provides the stages command for learnjq.
package stages

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/render"
	"bennypowers.dev/learnjq/cmd/workspace"
)

// Cmd is the stages cobra command.
var Cmd = &cobra.Command{
	Use:   "stages",
	Short: "List the stage catalog",
	Long:  `List the bundled stages followed by the stages declared in the workspace config, in catalog order.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().String("format", "table", "Output format: table, json, ids")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}
	rows := render.ComputeRows(ws.Catalog.All())

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return render.JSON(out, rows)
	case "ids":
		return render.Names(out, rows)
	case "table":
		return render.Table(out, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
