/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture loading helpers for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/learnjq/internal/mapfs"
)

// fixtureDir finds dir under the repository testdata directory from any
// package directory up to two levels deep.
func fixtureDir(t *testing.T, dir string) string {
	t.Helper()
	for _, base := range []string{"testdata", "../testdata", "../../testdata"} {
		path := filepath.Join(base, dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	t.Fatalf("fixture directory %s not found", dir)
	return ""
}

// NewFixtureFS copies a testdata fixture directory into an in-memory
// filesystem, placing its files under rootPath.
func NewFixtureFS(t *testing.T, dir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()
	src := fixtureDir(t, dir)
	mfs := mapfs.New()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, rel), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("loading fixtures from %s: %v", dir, err)
	}
	return mfs
}
