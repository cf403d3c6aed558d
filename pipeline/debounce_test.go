/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesCalls(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls, last atomic.Int32

	for i := range 5 {
		d.Debounce(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
	}
	time.Sleep(100 * time.Millisecond)
	d.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if got := last.Load(); got != 4 {
		t.Errorf("expected the last function to run, got %d", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.Debounce(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	d.Wait()

	if got := calls.Load(); got != 0 {
		t.Errorf("expected cancelled call not to run, got %d calls", got)
	}
}

func TestDebouncerImmediate(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var pending, immediate atomic.Int32

	d.Debounce(func() { pending.Add(1) })
	d.Immediate(func() { immediate.Add(1) })
	d.Wait()

	if pending.Load() != 0 || immediate.Load() != 1 {
		t.Errorf("pending=%d immediate=%d, want 0 and 1", pending.Load(), immediate.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	var calls atomic.Int32

	d.Debounce(func() { calls.Add(1) })
	d.Stop()
	d.Debounce(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(20 * time.Millisecond)
	d.Wait()

	if got := calls.Load(); got != 0 {
		t.Errorf("expected no calls after Stop, got %d", got)
	}
}
