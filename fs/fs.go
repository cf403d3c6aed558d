/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package fs provides the read-mostly filesystem abstraction used to load
// stage catalogs, configuration, and jq library directories.
package fs

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileSystem provides an abstraction over filesystem operations.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
	Exists(path string) bool

	// fs.FS compatibility, for fs.WalkDir and doublestar.
	Open(name string) (fs.File, error)
}

// OSFileSystem implements FileSystem using the standard os package.
type OSFileSystem struct{}

// NewOSFileSystem creates a new filesystem that uses the standard os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile reads the entire contents of a file.
func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to a file with the given permissions.
func (f *OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// ReadDir reads the named directory and returns its entries.
func (f *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns file information for the named file.
func (f *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Exists returns true if the path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens the named file for reading.
func (f *OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadOnlyFS adapts an io/fs.FS, such as an embed.FS, to FileSystem.
// Paths may be given with or without a leading slash.
type ReadOnlyFS struct {
	fsys fs.FS
}

// NewReadOnlyFS wraps fsys.
func NewReadOnlyFS(fsys fs.FS) *ReadOnlyFS {
	return &ReadOnlyFS{fsys: fsys}
}

// ReadFile implements FileSystem.
func (r *ReadOnlyFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.fsys, clean(name))
}

// WriteFile always fails with fs.ErrPermission.
func (r *ReadOnlyFS) WriteFile(name string, _ []byte, _ fs.FileMode) error {
	return &fs.PathError{Op: "write", Path: name, Err: fs.ErrPermission}
}

// ReadDir implements FileSystem.
func (r *ReadOnlyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(r.fsys, clean(name))
}

// Stat implements FileSystem.
func (r *ReadOnlyFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(r.fsys, clean(name))
}

// Exists implements FileSystem.
func (r *ReadOnlyFS) Exists(name string) bool {
	_, err := r.Stat(name)
	return err == nil
}

// Open implements FileSystem.
func (r *ReadOnlyFS) Open(name string) (fs.File, error) {
	return r.fsys.Open(clean(name))
}

func clean(name string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}
