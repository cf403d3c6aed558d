/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load_test

import (
	"testing"

	"bennypowers.dev/learnjq/load"
)

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	root := t.TempDir()
	ws, err := load.Load(t.Context(), load.Options{Root: root})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	w, err := ws.Watch(t.Context(), 0, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
