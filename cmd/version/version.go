/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for learnjq.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/render"
	"bennypowers.dev/learnjq/internal/version"
)

// Cmd is the version cobra command that prints version and build information.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for learnjq, including the linked gojq version.`,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := render.JSON(out, version.Info()); err != nil {
			return fmt.Errorf("error marshaling version info: %w", err)
		}
	case "text":
		fmt.Fprintf(out, "learnjq %s\n", version.Full())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
