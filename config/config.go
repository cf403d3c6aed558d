/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides workspace configuration loading for learnjq.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a config file that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Engine kinds.
const (
	EngineGojq = "gojq"
	EngineJQ   = "jq"
)

// Defaults.
const (
	DefaultAddr     = ":5173"
	DefaultDebounce = 250 * time.Millisecond
	DefaultLang     = "ja"
)

// Config represents the learnjq workspace configuration.
type Config struct {
	// Addr is the listen address for serve.
	Addr string `yaml:"addr" json:"addr"`

	// Debounce is the quiet period before evaluation, as a duration string.
	Debounce string `yaml:"debounce" json:"debounce"`

	// Lang selects the UI language: "ja" or "en".
	Lang string `yaml:"lang" json:"lang"`

	// ManualURL overrides the base URL of the jq manual.
	ManualURL string `yaml:"manualURL" json:"manualURL"`

	// IncludeBuiltin controls whether the bundled stages come first. Defaults to true.
	IncludeBuiltin *bool `yaml:"includeBuiltin" json:"includeBuiltin"`

	// Engine selects and configures the jq engine.
	Engine EngineSpec `yaml:"engine" json:"engine"`

	// Stages adds stages after the bundled ones (paths, globs, or inline definitions).
	Stages []StageSpec `yaml:"stages" json:"stages"`
}

// EngineSpec configures the jq engine.
type EngineSpec struct {
	// Kind is "gojq" (in-process, the default) or "jq" (external binary).
	Kind string `yaml:"kind" json:"kind"`

	// JQPath is the jq binary for kind "jq". Defaults to jq on PATH.
	JQPath string `yaml:"jqPath" json:"jqPath"`

	// LibraryPaths are jq module directories, relative to the workspace root.
	LibraryPaths []string `yaml:"libraryPaths" json:"libraryPaths"`
}

// StageSpec declares stages. It can be specified as a path or glob of stage
// definition files, or as an object defining one stage inline.
type StageSpec struct {
	// Path is a definition file path or doublestar glob.
	Path string `yaml:"path" json:"path"`

	ID            string `yaml:"id" json:"id"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Input         string `yaml:"input" json:"input"`
	Expected      string `yaml:"expected" json:"expected"`
	DefaultFilter string `yaml:"defaultFilter" json:"defaultFilter"`
}

// Inline reports whether s defines a stage itself rather than pointing at files.
func (s StageSpec) Inline() bool {
	return s.Path == "" && s.ID != ""
}

// UnmarshalYAML handles both string and object forms for StageSpec.
func (s *StageSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Path = node.Value
		return nil
	}

	type rawStageSpec StageSpec
	return node.Decode((*rawStageSpec)(s))
}

// UnmarshalJSON handles both string and object forms for StageSpec.
func (s *StageSpec) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Path = str
		return nil
	}

	type rawStageSpec StageSpec
	return json.Unmarshal(data, (*rawStageSpec)(s))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Addr:     DefaultAddr,
		Debounce: DefaultDebounce.String(),
		Lang:     DefaultLang,
		Engine:   EngineSpec{Kind: EngineGojq},
	}
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.Debounce == "" {
		c.Debounce = d.Debounce
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.Engine.Kind == "" {
		c.Engine.Kind = d.Engine.Kind
	}
}

// BuiltinEnabled reports whether the bundled stages are included.
func (c *Config) BuiltinEnabled() bool {
	return c.IncludeBuiltin == nil || *c.IncludeBuiltin
}

// DebounceDuration returns the parsed debounce period.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Debounce != "" {
		d, err := time.ParseDuration(c.Debounce)
		if err != nil {
			return fmt.Errorf("%w: debounce: %w", ErrInvalidConfig, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: debounce must not be negative", ErrInvalidConfig)
		}
	}
	switch c.Lang {
	case "", "ja", "en":
	default:
		return fmt.Errorf("%w: lang %q (want ja or en)", ErrInvalidConfig, c.Lang)
	}
	switch c.Engine.Kind {
	case "", EngineGojq, EngineJQ:
	default:
		return fmt.Errorf("%w: engine kind %q (want %s or %s)", ErrInvalidConfig, c.Engine.Kind, EngineGojq, EngineJQ)
	}
	for i, spec := range c.Stages {
		if spec.Path == "" && spec.ID == "" {
			return fmt.Errorf("%w: stages[%d] needs a path or an id", ErrInvalidConfig, i)
		}
	}
	return nil
}
