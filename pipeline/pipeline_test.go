/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const usersDoc = `{"users":[{"name":"Alice"},{"name":"Bob"}]}`

// recordingEngine records every filter it is asked to run.
type recordingEngine struct {
	mu      sync.Mutex
	filters []string
	next    engine.Engine
}

func (r *recordingEngine) Evaluate(ctx context.Context, document any, filter string) ([]any, error) {
	r.mu.Lock()
	r.filters = append(r.filters, filter)
	r.mu.Unlock()
	if r.next == nil {
		return []any{filter}, nil
	}
	return r.next.Evaluate(ctx, document, filter)
}

func (r *recordingEngine) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.filters...)
}

type panicEngine struct{}

func (panicEngine) Evaluate(context.Context, any, string) ([]any, error) {
	panic("engine exploded")
}

func gojq(t *testing.T) engine.Engine {
	t.Helper()
	eng, err := engine.GojqLoader(engine.GojqOptions{})(context.Background())
	require.NoError(t, err)
	return eng
}

func TestEvaluate(t *testing.T) {
	eng := gojq(t)
	ja := i18n.New("ja")

	tests := []struct {
		name     string
		in       pipeline.Input
		wantKind pipeline.Kind
		wantText string
	}{
		{
			name:     "single value",
			in:       pipeline.Input{Document: usersDoc, Filter: ".users | map(.name)"},
			wantKind: pipeline.KindOK,
			wantText: "[\n  \"Alice\",\n  \"Bob\"\n]",
		},
		{
			name:     "value stream",
			in:       pipeline.Input{Document: usersDoc, Filter: ".users[].name"},
			wantKind: pipeline.KindOK,
			wantText: "\"Alice\"\n\"Bob\"",
		},
		{
			name:     "filter is trimmed",
			in:       pipeline.Input{Document: usersDoc, Filter: "  .users | length \n"},
			wantKind: pipeline.KindOK,
			wantText: "2",
		},
		{
			name:     "no values",
			in:       pipeline.Input{Document: usersDoc, Filter: "empty"},
			wantKind: pipeline.KindOK,
			wantText: "",
		},
		{
			name:     "keys sorted and html kept",
			in:       pipeline.Input{Document: `{"b":"<b>","a":1}`, Filter: "."},
			wantKind: pipeline.KindOK,
			wantText: "{\n  \"a\": 1,\n  \"b\": \"<b>\"\n}",
		},
		{
			name:     "nan prints as null",
			in:       pipeline.Input{Document: usersDoc, Filter: "nan"},
			wantKind: pipeline.KindOK,
			wantText: "null",
		},
		{
			name:     "infinite clamps to the largest float",
			in:       pipeline.Input{Document: usersDoc, Filter: "infinite"},
			wantKind: pipeline.KindOK,
			wantText: "1.7976931348623157e+308",
		},
		{
			name:     "nan inside an array",
			in:       pipeline.Input{Document: usersDoc, Filter: "[1, nan]"},
			wantKind: pipeline.KindOK,
			wantText: "[\n  1,\n  null\n]",
		},
		{
			name:     "big integers are exact",
			in:       pipeline.Input{Document: `{"n": 12345678901234567890}`, Filter: ".n"},
			wantKind: pipeline.KindOK,
			wantText: "12345678901234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pipeline.Evaluate(context.Background(), eng, tt.in, ja)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantText, got.Text)
		})
	}
}

func TestEvaluateSkipsEngine(t *testing.T) {
	rec := &recordingEngine{}
	ja := i18n.New("ja")

	got := pipeline.Evaluate(context.Background(), rec, pipeline.Input{Document: usersDoc, Filter: "   "}, ja)
	assert.Equal(t, pipeline.OK(""), got)

	got = pipeline.Evaluate(context.Background(), rec, pipeline.Input{Document: `{"users": [`, Filter: "."}, ja)
	assert.True(t, got.IsError())
	assert.True(t, strings.HasPrefix(got.Text, "JSON パースエラー: "), got.Text)

	for _, doc := range []string{`{"a":1,} // c`, `{"a":1,}`, `1 2`} {
		got = pipeline.Evaluate(context.Background(), rec, pipeline.Input{Document: doc, Filter: "."}, ja)
		assert.True(t, got.IsError(), doc)
	}

	assert.Empty(t, rec.calls())
}

func TestEvaluateErrors(t *testing.T) {
	ja := i18n.New("ja")

	got := pipeline.Evaluate(context.Background(), gojq(t), pipeline.Input{Document: usersDoc, Filter: ".users | map(.name"}, ja)
	assert.True(t, got.IsError())
	assert.NotEmpty(t, got.Text)

	got = pipeline.Evaluate(context.Background(), panicEngine{}, pipeline.Input{Document: usersDoc, Filter: "."}, ja)
	assert.True(t, got.IsError())
	assert.Contains(t, got.Text, "engine exploded")

	failed := engine.NewAdapter(func(context.Context) (engine.Engine, error) {
		return nil, errors.New("jq.wasm not found")
	})
	got = pipeline.Evaluate(context.Background(), failed, pipeline.Input{Document: usersDoc, Filter: "."}, ja)
	assert.True(t, got.IsError())
	assert.Contains(t, got.Text, "jq.wasm not found")

	got = pipeline.Evaluate(context.Background(), nil, pipeline.Input{Document: usersDoc, Filter: "."}, ja)
	assert.True(t, got.IsError())
}

// collector gathers published updates.
type collector struct {
	updates chan pipeline.Update
}

func newCollector() *collector {
	return &collector{updates: make(chan pipeline.Update, 32)}
}

func (c *collector) publish(u pipeline.Update) {
	c.updates <- u
}

// settled waits for the next update that is neither placeholder nor running.
func (c *collector) settled(t *testing.T) pipeline.Update {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u := <-c.updates:
			if !u.Outcome.Pending() {
				return u
			}
		case <-timeout:
			t.Fatal("timed out waiting for an outcome")
			return pipeline.Update{}
		}
	}
}

func TestPipelineDebounces(t *testing.T) {
	rec := &recordingEngine{}
	c := newCollector()
	p := pipeline.New(rec, c.publish, pipeline.Options{Debounce: 50 * time.Millisecond})
	defer p.Close()

	p.Submit(pipeline.Input{Document: usersDoc, Filter: "."})
	p.Submit(pipeline.Input{Document: usersDoc, Filter: ".u"})
	last := p.Submit(pipeline.Input{Document: usersDoc, Filter: ".users"})

	u := c.settled(t)
	assert.Equal(t, last, u.Generation)
	assert.Equal(t, pipeline.OK(`".users"`), u.Outcome)
	assert.Equal(t, []string{".users"}, rec.calls())
	assert.Equal(t, u.Outcome, p.Outcome())
}

func TestPipelinePublishesRunning(t *testing.T) {
	c := newCollector()
	p := pipeline.New(&recordingEngine{}, c.publish, pipeline.Options{Debounce: -1, Messages: i18n.New("ja")})
	defer p.Close()

	p.Submit(pipeline.Input{Document: usersDoc, Filter: "."})

	select {
	case u := <-c.updates:
		assert.Equal(t, pipeline.KindRunning, u.Outcome.Kind)
		assert.Equal(t, "実行中...", u.Outcome.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no running update")
	}
	assert.Equal(t, pipeline.KindOK, c.settled(t).Outcome.Kind)
}

func TestPipelineEmptyFilter(t *testing.T) {
	rec := &recordingEngine{}
	c := newCollector()
	p := pipeline.New(rec, c.publish, pipeline.Options{Debounce: -1})
	defer p.Close()

	p.Submit(pipeline.Input{Document: usersDoc, Filter: ""})
	u := c.settled(t)
	assert.Equal(t, pipeline.OK(""), u.Outcome)
	assert.Empty(t, rec.calls())
}

// blockingEngine holds evaluations of "slow" until released or cancelled.
type blockingEngine struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingEngine) Evaluate(ctx context.Context, _ any, filter string) ([]any, error) {
	if filter == "slow" {
		close(b.started)
		select {
		case <-b.release:
		case <-ctx.Done():
		}
		return []any{"stale"}, nil
	}
	return []any{filter}, nil
}

func TestPipelineDropsStaleResults(t *testing.T) {
	eng := &blockingEngine{started: make(chan struct{}), release: make(chan struct{})}
	c := newCollector()
	p := pipeline.New(eng, c.publish, pipeline.Options{Debounce: -1})

	p.Submit(pipeline.Input{Document: usersDoc, Filter: "slow"})
	<-eng.started

	newer := p.Submit(pipeline.Input{Document: usersDoc, Filter: "fast"})
	u := c.settled(t)
	assert.Equal(t, newer, u.Generation)
	assert.Equal(t, pipeline.OK(`"fast"`), u.Outcome)

	close(eng.release)
	p.Close()
	close(c.updates)

	for u := range c.updates {
		assert.NotEqual(t, `"stale"`, u.Outcome.Text, "stale result published")
	}
	assert.Equal(t, pipeline.OK(`"fast"`), p.Outcome())
}

func TestPipelineReset(t *testing.T) {
	c := newCollector()
	p := pipeline.New(&recordingEngine{}, c.publish, pipeline.Options{Debounce: -1, Messages: i18n.New("en")})
	defer p.Close()

	p.Submit(pipeline.Input{Document: usersDoc, Filter: "first"})
	c.settled(t)

	out := p.Reset(pipeline.Input{Document: usersDoc, Filter: "second"})
	assert.Equal(t, pipeline.KindPlaceholder, out.Kind)
	assert.Equal(t, "(the result will appear here)", out.Text)

	u := c.settled(t)
	assert.Equal(t, pipeline.OK(`"second"`), u.Outcome)
	assert.Equal(t, "second", p.Input().Filter)
}

func TestPipelineClose(t *testing.T) {
	rec := &recordingEngine{}
	c := newCollector()
	p := pipeline.New(rec, c.publish, pipeline.Options{Debounce: time.Hour})

	gen := p.Submit(pipeline.Input{Document: usersDoc, Filter: "."})
	p.Close()
	p.Close()

	assert.Equal(t, gen, p.Submit(pipeline.Input{Document: usersDoc, Filter: ".users"}))
	assert.Empty(t, rec.calls())
	assert.Empty(t, c.updates)
	assert.Equal(t, pipeline.KindPlaceholder, p.Outcome().Kind)
}

func TestPipelineCloseDuringSubmit(t *testing.T) {
	for range 20 {
		p := pipeline.New(&recordingEngine{}, func(pipeline.Update) {}, pipeline.Options{Debounce: -1})

		var wg sync.WaitGroup
		for i := range 4 {
			wg.Go(func() {
				for j := range 25 {
					p.Submit(pipeline.Input{Document: usersDoc, Filter: fmt.Sprintf(".n%d_%d", i, j)})
				}
			})
		}
		p.Close()
		wg.Wait()
		p.Close()
	}
}

func TestPipelineCallbackMayReenter(t *testing.T) {
	done := make(chan pipeline.Outcome, 1)
	var p *pipeline.Pipeline
	p = pipeline.New(&recordingEngine{}, func(u pipeline.Update) {
		if u.Generation == p.Generation() && !u.Outcome.Pending() {
			done <- p.Outcome()
		}
	}, pipeline.Options{Debounce: -1})
	defer p.Close()

	p.Submit(pipeline.Input{Document: usersDoc, Filter: "."})
	select {
	case out := <-done:
		assert.Equal(t, pipeline.OK(`"."`), out)
	case <-time.After(5 * time.Second):
		t.Fatal("callback never ran")
	}
}
