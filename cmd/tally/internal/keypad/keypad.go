// Package keypad implements the interactive calculator UI as a bubbletea
// model. The model owns no calculator state: it binds a display to a
// session and forwards key presses to it.
package keypad

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/germanamz/tally/cmd/tally/internal/styles"
	"github.com/germanamz/tally/pkg/calculator"
	"github.com/germanamz/tally/pkg/session"
)

// minDisplayWidth fits the widest typed entry plus sign and decimal point.
const minDisplayWidth = 22

// screen is the UI's display surface. It is bound to the session once and
// shared by every copy of the model.
type screen struct {
	text    string
	renders int
}

func (s *screen) Render(text string) {
	s.text = text
	s.renders++
}

// Model is the root bubbletea model.
type Model struct {
	sess   *session.Session
	screen *screen
	keys   KeyMap
	help   help.Model
	width  int
	last   string
}

// New binds a display to sess and returns the model.
func New(sess *session.Session) Model {
	scr := &screen{}
	sess.Bind(scr)

	return Model{
		sess:   sess,
		screen: scr,
		keys:   NewKeyMap(),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	name := msg.String()
	if m.sess.Press(name) {
		m.last = name
	}

	return m, nil
}

func (m Model) View() string {
	eng := m.sess.Engine()
	isErr := calculator.IsError(eng.Entry())

	width := minDisplayWidth
	if w := runewidth.StringWidth(m.screen.text); w > width {
		width = w
	}

	text := padLeft(m.screen.text, width)
	box := styles.DisplayBorder
	if isErr {
		text = styles.DisplayError.Render(text)
		box = styles.DisplayErrorBorder
	} else {
		text = styles.DisplayText.Render(text)
	}

	parts := []string{
		styles.Title.Render("tally"),
		styles.Expression.Render(padLeft(m.expression(), width+2)),
		box.Render(text),
		styles.Status.Render(m.status()),
		m.help.View(m.keys),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// expression renders the pending operand and operator, e.g. "12 +".
func (m Model) expression() string {
	operand, op, ok := m.sess.Engine().Pending()
	if !ok || op == calculator.None {
		return ""
	}
	return calculator.FormatNumber(operand) + " " + op.String()
}

func (m Model) status() string {
	if m.last == "" {
		return " "
	}
	return fmt.Sprintf("last key: %s", m.last)
}

// padLeft right-aligns s in a field of width terminal cells.
func padLeft(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}
