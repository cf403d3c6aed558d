/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"errors"
	"strings"
)

// Sentinel errors for engine operations.
var (
	// ErrLoad indicates the engine could not be instantiated.
	ErrLoad = errors.New("jq engine failed to load")

	// ErrAssetNotFound indicates a binary or module directory the engine needs is missing.
	ErrAssetNotFound = errors.New("jq engine asset not found")

	// ErrEvaluation indicates the filter failed to compile or run.
	ErrEvaluation = errors.New("jq evaluation failed")
)

// EvalError describes a failed evaluation with the engine's own diagnostic text.
type EvalError struct {
	// Filter is the filter that failed.
	Filter string

	// Stderr is the diagnostic the engine wrote to standard error, if any.
	Stderr string

	// Offset is the byte offset of a syntax error in Filter, or -1.
	Offset int

	// Err is the underlying failure.
	Err error
}

func (e *EvalError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrEvaluation.Error()
}

func (e *EvalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEvaluation}
	}
	return []error{ErrEvaluation, e.Err}
}

// Diagnostic returns the text to show for a failed evaluation: the engine's
// standard-error output when present, otherwise the error message.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		if s := strings.TrimSpace(evalErr.Stderr); s != "" {
			return s
		}
		if evalErr.Err != nil {
			return evalErr.Err.Error()
		}
	}
	return err.Error()
}
