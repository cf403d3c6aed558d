/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	ljqfs "bennypowers.dev/learnjq/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "learn-jq"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Path returns the config file found under rootDir, or "".
func Path(filesystem ljqfs.FileSystem, rootDir string) string {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if filesystem.Exists(configPath) {
			return configPath
		}
	}
	return ""
}

// Load searches for .config/learn-jq.{yaml,yml,json} from rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem ljqfs.FileSystem, rootDir string) (*Config, error) {
	configPath := Path(filesystem, rootDir)
	if configPath == "" {
		return nil, nil
	}

	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch filepath.Ext(configPath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configPath, err)
		}
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault returns config or defaults if not found or invalid.
func LoadOrDefault(filesystem ljqfs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil || cfg == nil {
		return Default()
	}
	return cfg
}

// StageSource is one resolved entry of Config.Stages: a definition file or an
// inline stage.
type StageSource struct {
	// File is the absolute definition file path, if any.
	File string

	// Inline is the inline definition, if any.
	Inline *StageSpec
}

// ResolveStages expands stage globs into definition files, keeping the
// declaration order. Matches of one glob are sorted.
func (c *Config) ResolveStages(filesystem ljqfs.FileSystem, rootDir string) ([]StageSource, error) {
	var result []StageSource

	for i := range c.Stages {
		spec := c.Stages[i]
		if spec.Inline() {
			result = append(result, StageSource{Inline: &spec})
			continue
		}

		expanded, err := expandFilePath(filesystem, rootDir, spec.Path)
		if err != nil {
			return nil, err
		}
		for _, path := range expanded {
			result = append(result, StageSource{File: path})
		}
	}

	return result, nil
}

// LibraryPaths returns the engine library directories resolved against rootDir.
func (c *Config) LibraryPaths(rootDir string) []string {
	paths := make([]string, 0, len(c.Engine.LibraryPaths))
	for _, p := range c.Engine.LibraryPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(rootDir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// WatchedDirs returns the directories whose changes may alter the catalog:
// the config directory, the base directory of each stage glob, and the parent
// of each stage file.
func (c *Config) WatchedDirs(filesystem ljqfs.FileSystem, rootDir string) []string {
	dirs := []string{filepath.Join(rootDir, ConfigDir)}
	for _, spec := range c.Stages {
		if spec.Inline() {
			for _, ref := range []string{spec.Input, spec.Expected} {
				if ref != "" && !isRemote(ref) {
					dirs = append(dirs, filepath.Dir(absolute(rootDir, ref)))
				}
			}
			continue
		}
		dirs = append(dirs, globBase(absolute(rootDir, spec.Path)))
	}

	var existing []string
	for _, dir := range dirs {
		if filesystem.Exists(dir) && !slices.Contains(existing, dir) {
			existing = append(existing, dir)
		}
	}
	return existing
}

func absolute(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// expandFilePath expands a single file path which may contain globs.
func expandFilePath(filesystem ljqfs.FileSystem, rootDir, pattern string) ([]string, error) {
	pattern = absolute(rootDir, pattern)

	// Not a glob, return the path directly (errors handled when file is read)
	if !containsGlob(pattern) {
		return []string{pattern}, nil
	}

	return expandGlob(filesystem, pattern)
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// globBase returns the non-glob directory prefix of pattern.
func globBase(pattern string) string {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}
	return baseDir
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem ljqfs.FileSystem, pattern string) ([]string, error) {
	baseDir := globBase(pattern)

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string

	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't read
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matched, _ := doublestar.Match(relPattern, relPath); matched {
			matches = append(matches, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.Sort(matches)
	return matches, nil
}
