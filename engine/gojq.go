/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/itchyny/gojq"

	"bennypowers.dev/learnjq/fs"
)

// GojqOptions configures the in-process gojq engine.
type GojqOptions struct {
	// LibraryPaths are directories searched by jq import and include directives.
	// Each must exist when the engine loads.
	LibraryPaths []string

	// FS is used to check LibraryPaths. Defaults to the OS filesystem.
	FS fs.FileSystem
}

// GojqLoader returns a Loader for the in-process gojq engine.
func GojqLoader(opts GojqOptions) Loader {
	return func(ctx context.Context) (Engine, error) {
		filesystem := opts.FS
		if filesystem == nil {
			filesystem = fs.NewOSFileSystem()
		}
		for _, dir := range opts.LibraryPaths {
			info, err := filesystem.Stat(dir)
			if err != nil {
				return nil, fmt.Errorf("%w: jq library directory %s: %w", ErrAssetNotFound, dir, err)
			}
			if !info.IsDir() {
				return nil, fmt.Errorf("%w: jq library path %s is not a directory", ErrAssetNotFound, dir)
			}
		}
		return &Gojq{libraryPaths: slices.Clone(opts.LibraryPaths)}, nil
	}
}

// Gojq evaluates filters with github.com/itchyny/gojq.
type Gojq struct {
	libraryPaths []string
}

// Evaluate implements Engine.
func (g *Gojq) Evaluate(ctx context.Context, document any, filter string) ([]any, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, parseError(filter, err)
	}

	var compilerOpts []gojq.CompilerOption
	if len(g.libraryPaths) > 0 {
		compilerOpts = append(compilerOpts, gojq.WithModuleLoader(gojq.NewModuleLoader(g.libraryPaths)))
	}
	code, err := gojq.Compile(query, compilerOpts...)
	if err != nil {
		return nil, &EvalError{
			Filter: filter,
			Stderr: "jq: error: " + err.Error() + "\njq: 1 compile error",
			Offset: -1,
			Err:    err,
		}
	}

	var values []any
	iter := code.RunWithContext(ctx, value(document))
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, &EvalError{
				Filter: filter,
				Stderr: "jq: error (at <stdin>:0): " + err.Error(),
				Offset: -1,
				Err:    err,
			}
		}
		values = append(values, v)
	}
	return values, nil
}

// Parse checks filter syntax without running it.
func Parse(filter string) error {
	if _, err := gojq.Parse(filter); err != nil {
		return parseError(filter, err)
	}
	return nil
}

// parseError converts a gojq syntax error into an EvalError with a caret diagnostic.
func parseError(filter string, err error) *EvalError {
	offset := -1
	var pe *gojq.ParseError
	if errors.As(err, &pe) {
		offset = pe.Offset - len(pe.Token)
		offset = max(0, min(offset, len(filter)))
	}

	var b strings.Builder
	b.WriteString("jq: error: syntax error: ")
	b.WriteString(err.Error())
	if offset >= 0 {
		line, column := lineAt(filter, offset)
		b.WriteString("\n    ")
		b.WriteString(line)
		b.WriteString("\n    ")
		b.WriteString(strings.Repeat(" ", column))
		b.WriteString("^")
	}
	b.WriteString("\njq: 1 compile error")

	return &EvalError{Filter: filter, Stderr: b.String(), Offset: offset, Err: err}
}

// lineAt returns the line of s containing byte offset and the rune column of offset within it.
func lineAt(s string, offset int) (string, int) {
	start := strings.LastIndexByte(s[:offset], '\n') + 1
	end := strings.IndexByte(s[offset:], '\n')
	if end < 0 {
		end = len(s)
	} else {
		end += offset
	}
	return s[start:end], utf8.RuneCountInString(s[start:offset])
}
