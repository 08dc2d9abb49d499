// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/grompt/internal/adapters/driving/tui/styles"
)

// State represents the current form state for display.
type State string

const (
	StateReady      State = "ready"
	StateRephrasing State = "rephrasing"
	StateDone       State = "done"
	StateWarning    State = "warning"
	StateError      State = "error"
	StateHelp       State = "help"
)

// Bar displays the form state, the active model and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	model   string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalPadding()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and the active model.
func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case StateRephrasing:
		state = s.styles.Muted.Render("Optimizing...")
	case StateDone:
		state = s.styles.Success.Render("Done")
	case StateWarning:
		state = s.styles.Warning.Render(s.message)
	case StateError:
		state = s.styles.Error.Render("Error")
	case StateHelp:
		state = s.styles.Normal.Render("Help")
	default:
		state = s.styles.Muted.Render("Ready")
	}

	if s.model == "" {
		return state
	}
	return state + s.styles.Muted.Render(" · "+s.model)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateHelp {
		bindings = []key.Binding{s.keymap.Back, s.keymap.Quit}
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetModel sets the model shown next to the state.
func (s *Bar) SetModel(model string) {
	s.model = model
}

// Model returns the model shown next to the state.
func (s *Bar) Model() string {
	return s.model
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its ready state, keeping the model.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
