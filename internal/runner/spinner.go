// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// brailleSpinner cycles every 80ms.
var brailleSpinner = spinner.Spinner{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    80 * time.Millisecond,
}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// stopMsg asks the model to quit and clear its line.
type stopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	prefix  string
	title   string
	done    bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(stopMsg); ok {
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.prefix + m.spinner.View() + " " + m.title
}

// =============================================================================
// SPINNER LIFECYCLE
// =============================================================================

// Spinner animates a progress indicator in its own goroutine until Stop.
// It never reads or alters the state of the work it decorates.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// StartSpinner begins animating on w. indent is the column the frame is
// drawn at.
func StartSpinner(w io.Writer, indent int, title string) *Spinner {
	sm := spinner.New()
	sm.Spinner = brailleSpinner
	sm.Style = spinnerStyle

	model := spinnerModel{spinner: sm, prefix: strings.Repeat(" ", indent), title: title}
	s := &Spinner{
		program: tea.NewProgram(model,
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
	return s
}

// Stop signals the spinner and waits for its goroutine to exit. It is safe
// to call more than once and on a nil Spinner.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.program.Send(stopMsg{})
		<-s.done
	})
}
