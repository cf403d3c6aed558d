/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/session"
	"bennypowers.dev/learnjq/stage"
)

type fixture struct {
	model   Model
	updates chan pipeline.Update
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := stage.BuiltinCatalog()
	require.NoError(t, err)
	eng, err := engine.GojqLoader(engine.GojqOptions{})(context.Background())
	require.NoError(t, err)

	f := &fixture{updates: make(chan pipeline.Update, 64)}
	msgs := i18n.New("en")
	sess := session.New(catalog, eng, func(u pipeline.Update) { f.updates <- u },
		session.Options{Debounce: -1, Messages: msgs})
	t.Cleanup(sess.Close)
	f.model = newModel(sess, msgs, NewStyles(highlight.DefaultTheme()))
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, _ := f.model.Update(msg)
	f.model = next.(Model)
}

// settle feeds updates to the model until the current generation is final.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u := <-f.updates:
			f.send(t, outcomeMsg(u))
			if u.Generation == f.model.sess.Generation() && !u.Outcome.Pending() {
				return
			}
		case <-timeout:
			t.Fatal("no outcome")
		}
	}
}

func typeText(t *testing.T, f *fixture, text string) {
	t.Helper()
	for _, r := range text {
		f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModel_InitialStage(t *testing.T) {
	f := newFixture(t)
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	f.settle(t)

	assert.Equal(t, ".users | map(.name)", f.model.FilterValue())
	assert.Equal(t, pipeline.KindOK, f.model.Outcome().Kind)
	view := f.model.View()
	assert.Contains(t, view, "001.")
	assert.Contains(t, view, "Matches the expected output")
	assert.Contains(t, view, "Input JSON")
}

func TestModel_Typing(t *testing.T) {
	f := newFixture(t)
	f.settle(t)

	f.model.filter.SetValue("")
	typeText(t, f, ".users | length")
	assert.Equal(t, ".users | length", f.model.sess.Filter())
	f.settle(t)

	assert.Equal(t, pipeline.OK("3"), f.model.Outcome())
	assert.Contains(t, f.model.View(), "Does not match the expected output")
}

func TestModel_StaleOutcomeIgnored(t *testing.T) {
	f := newFixture(t)
	f.settle(t)
	current := f.model.Outcome()

	f.send(t, outcomeMsg{Generation: f.model.sess.Generation() - 1, Outcome: pipeline.Failed("late")})
	assert.Equal(t, current, f.model.Outcome())
}

func TestModel_StageSwitching(t *testing.T) {
	f := newFixture(t)
	f.settle(t)

	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "002", f.model.sess.Stage().ID())
	assert.Equal(t, f.model.sess.Stage().DefaultFilter(), f.model.FilterValue())
	f.settle(t)
	assert.True(t, f.model.sess.Stage().Matches(f.model.Outcome().Text))

	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlP})
	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "005", f.model.sess.Stage().ID())
}

func TestModel_SynchronisedScroll(t *testing.T) {
	f := newFixture(t)
	f.send(t, tea.WindowSizeMsg{Width: 80, Height: 20})

	// Stage 003's expected output is longer than the viewport.
	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlN})
	f.send(t, tea.KeyMsg{Type: tea.KeyCtrlN})
	f.settle(t)
	require.Greater(t, f.model.output.TotalLineCount(), f.model.output.Height)

	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, f.model.output.YOffset)
	assert.Equal(t, f.model.output.YOffset, f.model.expected.YOffset)

	f.send(t, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, f.model.expected.YOffset)
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestStyles(t *testing.T) {
	s := NewStyles(highlight.DefaultTheme())
	src := `{"a": [1, true, null]}`
	assert.Contains(t, stripANSI(s.JSON(src)), `"a"`)
	assert.Equal(t, src, stripANSI(s.JSON(src)))
	assert.Equal(t, ".a | keys", stripANSI(s.Filter(".a | keys")))
	assert.Equal(t, "boom", stripANSI(s.Outcome(pipeline.Failed("boom"))))
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
