/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package check provides the check command for learnjq.
package check

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bennypowers.dev/learnjq/cmd/workspace"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// ErrCheckFailed is returned when any stage's default filter misses.
var ErrCheckFailed = errors.New("check failed")

// Cmd is the check cobra command.
var Cmd = &cobra.Command{
	Use:   "check [stage...]",
	Short: "Check that every default filter solves its stage",
	Long: `Evaluate each stage's default filter against its input and fail unless the
output matches the expected output. Without arguments, every stage is checked.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output failures")
}

// Result is the outcome of checking one stage.
type Result struct {
	Stage   *stage.Stage
	Outcome pipeline.Outcome
	Matches bool
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	ws, err := workspace.Load(cmd.Context())
	if err != nil {
		return err
	}

	stages := ws.Catalog.All()
	if len(args) > 0 {
		stages = stages[:0:0]
		for _, id := range args {
			st, err := ws.Catalog.Lookup(id)
			if err != nil {
				return err
			}
			stages = append(stages, st)
		}
	}

	results := make([]Result, len(stages))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, st := range stages {
		g.Go(func() error {
			out := pipeline.Evaluate(ctx, ws.Engine, pipeline.Input{
				Document: st.InputText(),
				Filter:   st.DefaultFilter(),
			}, ws.Messages)
			results[i] = Result{
				Stage:   st,
				Outcome: out,
				Matches: out.Kind == pipeline.KindOK && st.Matches(out.Text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cmd.SilenceUsage = true
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := 0
	for _, r := range results {
		switch {
		case r.Matches:
			if !quiet {
				fmt.Fprintf(stdout, "ok    %s  %s\n", r.Stage.ID(), r.Stage.Title())
			}
		case r.Outcome.IsError():
			failed++
			fmt.Fprintf(stderr, "error %s  %s\n", r.Stage.ID(), r.Outcome.Text)
		default:
			failed++
			fmt.Fprintf(stderr, "FAIL  %s  output does not match the expected output\n", r.Stage.ID())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d stages", ErrCheckFailed, failed, len(results))
	}
	if !quiet {
		fmt.Fprintf(stdout, "All %d stages pass.\n", len(results))
	}
	return nil
}
