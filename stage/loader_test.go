/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/learnjq/stage"
	"bennypowers.dev/learnjq/testutil"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return []byte(body), nil
}

func TestLoadFile_List(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/stages/workspace", "/workspace")
	l := &stage.Loader{FS: mfs}

	stages, err := l.LoadFile(context.Background(), "/workspace/stages/basics.yaml")
	require.NoError(t, err)
	require.Len(t, stages, 2)

	keys := stages[0]
	assert.Equal(t, "101", keys.ID())
	assert.Equal(t, "Keys", keys.Title())
	assert.Equal(t, "List the object's keys", keys.Description())
	assert.Equal(t, "keys", keys.DefaultFilter())
	assert.Equal(t, "/workspace/stages/basics.yaml", keys.Source())
	assert.Equal(t, "{\n  \"zeta\": 1,\n  \"alpha\": 2\n}", keys.InputText())

	lengths := stages[1]
	assert.Equal(t, "[\n  \"ab\",\n  [\n    1,\n    2,\n    3\n  ],\n  \"\"\n]", lengths.InputText(), "comments and trailing commas are stripped")
}

func TestLoadFile_SingleJSONC(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/stages/workspace", "/workspace")
	l := &stage.Loader{FS: mfs}

	stages, err := l.LoadFile(context.Background(), "/workspace/stages/nested/single.json")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "103", stages[0].ID())
	assert.Equal(t, "5", stages[0].ExpectedText())
}

func TestLoadFile_Errors(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/stages/broken", "/broken")
	l := &stage.Loader{FS: mfs}

	tests := []struct {
		file string
		want error
	}{
		{file: "missing-expected.yaml", want: stage.ErrMissingField},
		{file: "invalid-document.yaml", want: stage.ErrInvalidDocument},
		{file: "empty.yaml", want: stage.ErrEmptyCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := l.LoadFile(context.Background(), "/broken/"+tt.file)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := l.LoadFile(context.Background(), "/broken/nope.yaml")
	assert.Error(t, err)
}

func TestLoadFile_Remote(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/stages/broken", "/broken")

	_, err := (&stage.Loader{FS: mfs}).LoadFile(context.Background(), "/broken/remote.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fetcher configured")

	l := &stage.Loader{FS: mfs, Fetcher: fakeFetcher{
		"https://fixtures.example.com/203.input.json": `{"remote": true}`,
	}}
	stages, err := l.LoadFile(context.Background(), "/broken/remote.yaml")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"remote\": true\n}", stages[0].InputText())
}

func TestIsRemote(t *testing.T) {
	assert.True(t, stage.IsRemote("https://example.com/a.json"))
	assert.True(t, stage.IsRemote("http://example.com/a.json"))
	assert.False(t, stage.IsRemote("fixtures/a.json"))
	assert.False(t, stage.IsRemote("/abs/https://a.json"))
}
