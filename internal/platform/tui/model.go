package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rc01/internal/compositor"
	"github.com/vovakirdan/rc01/internal/console"
)

// session is the console driver behind a Model. It lives behind a pointer
// so the value-receiver model can hand it to Console.Step.
type session struct {
	console  *console.Console
	keys     *HeldKeys
	closing  bool
	view     string
	cols     int
	rows     int
	err      error
	finished bool
}

// PollEvents reports the close requested by a quit key.
func (s *session) PollEvents() bool {
	return s.closing
}

// Present renders the composed window into terminal cells.
func (s *session) Present(f *compositor.Frame) error {
	b := f.Image.Bounds()
	s.cols = (b.Dx() + f.Scale - 1) / f.Scale
	s.rows = ((b.Dy()+f.Scale-1)/f.Scale + 1) / 2
	s.view = RenderFrame(f.Image, f.Scale)
	return nil
}

// Model is the Bubble Tea model for running a console in the terminal.
type Model struct {
	s         *session
	keyMapper *KeyMapper
	tickRate  int
	width     int
	height    int
}

// NewModel creates a model driving c. keys must be the same key state the
// console was built with, or nil when the console reads no input.
func NewModel(c *console.Console, keys *HeldKeys) Model {
	if keys == nil {
		keys = NewHeldKeys(0, nil)
	}
	return Model{
		s:         &session{console: c, keys: keys},
		keyMapper: NewKeyMapper(),
		tickRate:  c.Config().TickRate,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.BlurMsg:
		// Releases made while unfocused are never reported.
		m.s.keys.Release()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey records held keys and quit requests. The close itself is
// observed by the console on its next frame.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.IsQuit(msg) {
		m.s.closing = true
		return m, nil
	}
	if k, ok := m.keyMapper.MapKey(msg); ok {
		m.s.keys.Press(k)
	}
	return m, nil
}

// handleTick runs one console frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.s.finished {
		return m, nil
	}
	err := m.s.console.Step(m.s)
	if err != nil {
		m.s.finished = true
		if !errors.Is(err, console.ErrClosed) {
			m.s.err = err
		}
		return m, tea.Quit
	}
	return m, tickCmd(m.tickRate)
}

// Err returns the error that stopped the console, if any.
func (m Model) Err() error {
	return m.s.err
}

// View renders the last presented frame.
func (m Model) View() string {
	if m.s.finished {
		return ""
	}
	if m.width > 0 && m.height > 0 && (m.width < m.s.cols || m.height < m.s.rows) {
		msg := fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", m.s.cols, m.s.rows, m.width, m.height)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.s.view)
	}
	return m.s.view
}

// Run starts the Bubble Tea program for c and blocks until the console
// closes. A script or present error is returned.
func Run(c *console.Console, keys *HeldKeys) error {
	model := NewModel(c, keys)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithReportFocus(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(Model); ok {
		return m.Err()
	}
	return nil
}
