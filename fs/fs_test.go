/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package fs_test

import (
	"errors"
	iofs "io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/learnjq/fs"
)

func TestReadOnlyFS(t *testing.T) {
	ro := fs.NewReadOnlyFS(fstest.MapFS{
		"stages.yaml":       {Data: []byte("stages: []\n")},
		"problems/one.json": {Data: []byte(`{"a":1}`)},
		"problems/two.json": {Data: []byte(`[]`)},
	})

	data, err := ro.ReadFile("/stages.yaml")
	require.NoError(t, err)
	assert.Equal(t, "stages: []\n", string(data))

	entries, err := ro.ReadDir("problems")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.True(t, ro.Exists("/problems/one.json"))
	assert.False(t, ro.Exists("missing.json"))

	info, err := ro.Stat("/")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = ro.WriteFile("stages.yaml", nil, 0o644)
	assert.True(t, errors.Is(err, iofs.ErrPermission))
}

func TestOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.NewOSFileSystem()
	name := dir + "/input.json"

	require.NoError(t, osfs.WriteFile(name, []byte("{}"), 0o644))
	assert.True(t, osfs.Exists(name))

	data, err := osfs.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := osfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
