// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

// Package tui renders interactive import progress.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/labmigrate/internal/importer"
)

// Brand color
var (
	primaryColor = lipgloss.Color("#ff7300")
	subtleColor  = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// OutcomeMsg carries one processed issue from the importer.
type OutcomeMsg struct {
	Outcome importer.Outcome
	Line    string
}

// DoneMsg signals that the importer has returned.
type DoneMsg struct{}

// Model shows a progress bar over the source issues and prints one line per
// processed issue above it.
type Model struct {
	spinner  spinner.Model
	bar      progress.Model
	title    string
	total    int
	done     int
	current  string
	quitting bool
	aborted  bool
	events   <-chan OutcomeMsg
}

// NewModel creates a progress model for total issues fed through events.
// The importer side closes events when the run ends.
func NewModel(title string, total int, events <-chan OutcomeMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		title:   title,
		total:   total,
		events:  events,
	}
}

// Aborted reports whether the user quit before the run finished.
func (m Model) Aborted() bool {
	return m.aborted
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			m.aborted = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OutcomeMsg:
		m.done++
		m.current = msg.Outcome.Issue.Title
		return m, tea.Batch(tea.Println(msg.Line), m.waitForActivity())

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

// Percent returns the share of issues processed so far.
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 1
	}
	p := float64(m.done) / float64(m.total)
	if p > 1 {
		return 1
	}
	return p
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	fmt.Fprintf(&s, "%s %s %d/%d\n", m.spinner.View(), m.bar.ViewAs(m.Percent()), m.done, m.total)
	if m.current != "" {
		s.WriteString(hintStyle.Render("last: "+m.current) + "\n")
	}

	s.WriteString(hintStyle.Render("\nPress q to stop after the current issue\n"))

	return s.String()
}
