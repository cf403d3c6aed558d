/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/learnjq/fs"
)

// Fetcher fetches remote fixture documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Definition declares a stage. Input and Expected reference JSON documents by
// path, relative to the declaring file, or by http(s) URL.
type Definition struct {
	ID            string `yaml:"id" json:"id"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Input         string `yaml:"input" json:"input"`
	Expected      string `yaml:"expected" json:"expected"`
	DefaultFilter string `yaml:"defaultFilter" json:"defaultFilter"`
}

// definitionFile is either a list of stages or a single stage.
type definitionFile struct {
	Definition `yaml:",inline"`
	Stages     []Definition `yaml:"stages" json:"stages"`
}

// Loader reads stage definition files and their fixtures.
type Loader struct {
	// FS reads definition files and fixtures. Defaults to the OS filesystem.
	FS fs.FileSystem

	// Fetcher resolves http(s) fixture references. Remote references fail when nil.
	Fetcher Fetcher
}

func (l *Loader) filesystem() fs.FileSystem {
	if l.FS == nil {
		return fs.NewOSFileSystem()
	}
	return l.FS
}

// LoadFile loads every stage declared in a YAML or JSON definition file.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*Stage, error) {
	data, err := l.filesystem().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stage file %s: %w", path, err)
	}

	var file definitionFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("parsing stage file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing stage file %s: %w", path, err)
		}
	}

	defs := file.Stages
	if len(defs) == 0 && file.ID != "" {
		defs = []Definition{file.Definition}
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("stage file %s: %w", path, ErrEmptyCatalog)
	}

	baseDir := filepath.Dir(path)
	stages := make([]*Stage, 0, len(defs))
	for _, def := range defs {
		s, err := l.LoadDefinition(ctx, def, baseDir, path)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

// LoadDefinition builds one stage, resolving fixture paths against baseDir.
func (l *Loader) LoadDefinition(ctx context.Context, def Definition, baseDir, source string) (*Stage, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("%w: id (%s)", ErrMissingField, source)
	}
	if def.Input == "" {
		return nil, fmt.Errorf("stage %s: %w: input", def.ID, ErrMissingField)
	}
	if def.Expected == "" {
		return nil, fmt.Errorf("stage %s: %w: expected", def.ID, ErrMissingField)
	}

	input, err := l.document(ctx, def.Input, baseDir)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", def.ID, err)
	}
	expected, err := l.document(ctx, def.Expected, baseDir)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", def.ID, err)
	}

	return New(Fields{
		ID:            def.ID,
		Title:         def.Title,
		Description:   def.Description,
		DefaultFilter: def.DefaultFilter,
		Source:        source,
		Input:         input,
		Expected:      expected,
	})
}

// document reads a fixture by path or URL.
func (l *Loader) document(ctx context.Context, ref, baseDir string) ([]byte, error) {
	if IsRemote(ref) {
		if l.Fetcher == nil {
			return nil, fmt.Errorf("fetching %s: no fetcher configured", ref)
		}
		return l.Fetcher.Fetch(ctx, ref)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := l.filesystem().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	return data, nil
}

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
