/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultJQPath is the binary looked up when ExecOptions.Path is empty.
const DefaultJQPath = "jq"

// ExecOptions configures the external jq binary engine.
type ExecOptions struct {
	// Path is the jq binary name or path. Defaults to DefaultJQPath.
	Path string
}

// ExecLoader returns a Loader that resolves an external jq binary once.
func ExecLoader(opts ExecOptions) Loader {
	return func(ctx context.Context) (Engine, error) {
		path := opts.Path
		if path == "" {
			path = DefaultJQPath
		}
		resolved, err := exec.LookPath(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrAssetNotFound, path, err)
		}
		return &Exec{path: resolved}, nil
	}
}

// Exec evaluates filters by running a jq binary.
type Exec struct {
	path string
}

// Path returns the resolved binary path.
func (e *Exec) Path() string {
	return e.path
}

// Evaluate implements Engine. The document is written to the binary's stdin and
// its stdout is split into a stream of json.RawMessage values, so key order
// and number text are exactly as jq printed them.
func (e *Exec) Evaluate(ctx context.Context, document any, filter string) ([]any, error) {
	input, err := stdin(document)
	if err != nil {
		return nil, &EvalError{Filter: filter, Offset: -1, Err: fmt.Errorf("encoding document: %w", err)}
	}

	// jq would read a leading dash as an option.
	arg := filter
	if strings.HasPrefix(arg, "-") {
		arg = " " + arg
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, "--compact-output", arg)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &EvalError{Filter: filter, Stderr: stderr.String(), Offset: -1, Err: err}
	}

	var values []any
	dec := json.NewDecoder(&stdout)
	for {
		var v json.RawMessage
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &EvalError{Filter: filter, Stderr: stderr.String(), Offset: -1, Err: fmt.Errorf("decoding jq output: %w", err)}
		}
		values = append(values, v)
	}
	return values, nil
}

func stdin(document any) ([]byte, error) {
	if d, ok := document.(Document); ok && len(d.Raw) > 0 {
		return d.Raw, nil
	}
	return json.Marshal(value(document))
}
