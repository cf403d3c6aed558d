/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/session"
)

// outcomeMsg delivers a pipeline update to the program.
type outcomeMsg pipeline.Update

// Model is the bubbletea model of the play screen.
type Model struct {
	sess   *session.Session
	msgs   *i18n.Printer
	styles Styles

	filter   textinput.Model
	input    viewport.Model
	expected viewport.Model
	output   viewport.Model

	outcome    pipeline.Outcome
	generation uint64
	width      int
	height     int
}

func newModel(sess *session.Session, msgs *i18n.Printer, styles Styles) Model {
	ti := textinput.New()
	ti.Prompt = "jq> "
	ti.Placeholder = msgs.T(i18n.FilterPlaceholder)
	ti.Focus()

	m := Model{
		sess:     sess,
		msgs:     msgs,
		styles:   styles,
		filter:   ti,
		input:    viewport.New(40, 10),
		expected: viewport.New(40, 10),
		output:   viewport.New(40, 10),
	}
	m.loadStage()
	return m
}

// Init implements tea.Model. It also picks up an outcome published before
// the program started.
func (m Model) Init() tea.Cmd {
	sess := m.sess
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return outcomeMsg{Generation: sess.Generation(), Outcome: sess.Outcome()}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case outcomeMsg:
		if msg.Generation != m.sess.Generation() {
			return m, nil
		}
		m.generation = msg.Generation
		m.setOutcome(msg.Outcome)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			return m.step(1), nil
		case "ctrl+p":
			return m.step(-1), nil
		case "pgdown", "ctrl+d":
			m.scroll(m.output.Height / 2)
			return m, nil
		case "pgup", "ctrl+u":
			m.scroll(-m.output.Height / 2)
			return m, nil
		case "down":
			m.scroll(1)
			return m, nil
		case "up":
			m.scroll(-1)
			return m, nil
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		m.generation = m.sess.SetFilter(after)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	st := m.sess.Stage()

	header := m.styles.Title.Render(fmt.Sprintf("%s. %s", st.ID(), st.Title()))
	if d := st.Description(); d != "" {
		header += "\n" + d
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(i18n.InputPane, m.input.View()),
		m.pane(i18n.FilterPane, m.filter.View()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(i18n.ExpectedPane, m.expected.View()),
		m.pane(i18n.OutputPane, m.output.View()),
	)

	help := m.styles.Help.Render(fmt.Sprintf("ctrl+p %s · ctrl+n %s · pgup/pgdown · esc",
		m.msgs.T(i18n.PrevStage), m.msgs.T(i18n.NextStage)))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.verdict(),
		help,
	)
}

func (m Model) pane(title i18n.Key, body string) string {
	return m.styles.Pane.Render(m.styles.Label.Render(m.msgs.T(title)) + "\n" + body)
}

func (m Model) verdict() string {
	if m.outcome.Kind != pipeline.KindOK {
		return ""
	}
	if m.sess.Stage().Matches(m.outcome.Text) {
		return m.styles.Match.Render("✓ " + m.msgs.T(i18n.Match))
	}
	return m.styles.Error.Render("✗ " + m.msgs.T(i18n.Mismatch))
}

// step moves to the next or previous stage.
func (m Model) step(delta int) Model {
	catalog := m.sess.Catalog()
	id := m.sess.Stage().ID()
	next, err := catalog.Next(id)
	if delta < 0 {
		next, err = catalog.Prev(id)
	}
	if err != nil {
		return m
	}
	if _, err := m.sess.SelectStage(next.ID()); err != nil {
		return m
	}
	m.loadStage()
	return m
}

// loadStage shows the session's current stage and filter.
func (m *Model) loadStage() {
	st := m.sess.Stage()
	m.filter.SetValue(m.sess.Filter())
	m.filter.CursorEnd()
	m.input.SetContent(m.styles.JSON(st.InputText()))
	m.input.GotoTop()
	m.expected.SetContent(m.styles.JSON(st.ExpectedText()))
	m.expected.GotoTop()
	m.generation = m.sess.Generation()
	m.setOutcome(m.sess.Outcome())
}

func (m *Model) setOutcome(out pipeline.Outcome) {
	m.outcome = out
	m.output.SetContent(m.styles.Outcome(out))
	m.expected.SetYOffset(m.output.YOffset)
}

// scroll moves the output and expected viewports together.
func (m *Model) scroll(delta int) {
	m.output.SetYOffset(m.output.YOffset + delta)
	m.expected.SetYOffset(m.output.YOffset)
}

func (m *Model) layout() {
	// Two columns, each with a border (2) and two labelled panes.
	col := max(m.width/2-2, 10)
	pane := max((m.height-8)/2-2, 3)
	for _, vp := range []*viewport.Model{&m.input, &m.expected, &m.output} {
		vp.Width = col
		vp.Height = pane
	}
	m.filter.Width = col - len(m.filter.Prompt) - 1
}

// Outcome returns the displayed outcome.
func (m Model) Outcome() pipeline.Outcome {
	return m.outcome
}

// FilterValue returns the text in the filter input.
func (m Model) FilterValue() string {
	return m.filter.Value()
}
