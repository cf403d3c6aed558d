/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package run provides the run command for learnjq.
package run

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/learnjq/cmd/render"
	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// Errors reported through the exit status.
var (
	ErrFailed   = errors.New("filter failed")
	ErrMismatch = errors.New("output does not match the expected output")
)

// Cmd is the run cobra command.
var Cmd = &cobra.Command{
	Use:   "run <stage> [filter]",
	Short: "Evaluate a filter against a stage",
	Long: `Evaluate a filter against a stage's input and compare the output with the
expected output. Without a filter, the stage's default filter is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: run,
}

func init() {
	Cmd.Flags().String("format", "text", "Output format: text, json")
	Cmd.Flags().String("color", "auto", "Colour output: auto, always, never")
	Cmd.Flags().Bool("diff", false, "Show a structural diff when the output does not match")
}

// Result is the json output of run.
type Result struct {
	Stage   string `json:"stage"`
	Filter  string `json:"filter"`
	Kind    string `json:"kind"`
	Output  string `json:"output"`
	Matches bool   `json:"matches"`
	Diff    string `json:"diff,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	colorMode, _ := cmd.Flags().GetString("color")
	showDiff, _ := cmd.Flags().GetBool("diff")

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}
	var stdout *os.File
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		stdout = f
	}
	color, err := render.ColorEnabled(colorMode, stdout)
	if err != nil {
		return err
	}

	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}
	st, err := ws.Catalog.Lookup(args[0])
	if err != nil {
		return err
	}
	filter := st.DefaultFilter()
	if len(args) > 1 {
		filter = args[1]
	}

	out := pipeline.Evaluate(cmd.Context(), ws.Engine, pipeline.Input{
		Document: st.InputText(),
		Filter:   filter,
	}, ws.Messages)

	result := Result{
		Stage:   st.ID(),
		Filter:  filter,
		Kind:    string(out.Kind),
		Output:  out.Text,
		Matches: out.Kind == pipeline.KindOK && st.Matches(out.Text),
	}
	if showDiff && out.Kind == pipeline.KindOK && !result.Matches {
		result.Diff = diff(st, out.Text)
	}

	// Failures are reported through the exit status, not usage.
	cmd.SilenceUsage = true

	w := cmd.OutOrStdout()
	if format == "json" {
		if err := render.JSON(w, result); err != nil {
			return err
		}
	} else {
		p := render.Painter{Theme: highlight.DefaultTheme(), Enabled: color}
		fmt.Fprintln(w, p.Outcome(out))
		if out.Kind == pipeline.KindOK {
			fmt.Fprintln(w)
			if result.Matches {
				fmt.Fprintln(w, ws.Messages.T(i18n.Match))
			} else {
				fmt.Fprintln(w, ws.Messages.T(i18n.Mismatch))
			}
		}
		if result.Diff != "" {
			fmt.Fprintf(w, "\n(-expected +output)\n%s", result.Diff)
		}
	}

	switch {
	case out.IsError():
		return fmt.Errorf("%w: stage %s", ErrFailed, st.ID())
	case !result.Matches:
		return fmt.Errorf("%w: stage %s", ErrMismatch, st.ID())
	}
	return nil
}

// diff returns the structural diff, or the reason none could be computed.
func diff(st *stage.Stage, output string) string {
	d, err := render.Diff(st.ExpectedText(), output)
	if err != nil {
		return fmt.Sprintf("no diff: %v\n", err)
	}
	return d
}
