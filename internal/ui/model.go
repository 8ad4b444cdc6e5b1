// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package ui implements the terminal workflow monitor: a Bubble Tea model
// showing each workflow step's state and a live tail of the wrapped tools'
// output.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"bioblocks/internal/config"
	"bioblocks/internal/workflow"
)

type stepStatus int

const (
	statusPending stepStatus = iota
	statusRunning
	statusDone
	statusSkipped
	statusFailed
)

// outputTailLines bounds the in-memory output tail.
const outputTailLines = 200

// Model is the Bubble Tea model for a workflow run.
type Model struct {
	wf     *workflow.Workflow
	runner *workflow.Runner
	events chan workflow.Event

	statuses  []stepStatus
	exitCodes []int
	output    []string
	partial   string

	spinner spinner.Model
	current int
	done    bool
	err     error
	width   int
	height  int
}

// InitialModel prepares a monitor for the given workflow.
func InitialModel(wf *workflow.Workflow, appCfg config.Config) Model {
	events := make(chan workflow.Event, 64)
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		wf:        wf,
		runner:    &workflow.Runner{Workflow: wf, AppConfig: appCfg, Events: events},
		events:    events,
		statuses:  make([]stepStatus, len(wf.Steps)),
		exitCodes: make([]int, len(wf.Steps)),
		spinner:   s,
		current:   -1,
	}
}

// --- Messages ---

type eventMsg struct{ ev workflow.Event }
type eventsClosedMsg struct{}

// --- Commands ---

func runWorkflowCmd(r *workflow.Runner) tea.Cmd {
	return func() tea.Msg {
		// Errors surface through the event stream.
		_ = r.Run()
		return nil
	}
}

func waitForEventCmd(events <-chan workflow.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{ev}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		runWorkflowCmd(m.runner),
		waitForEventCmd(m.events),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.applyEvent(msg.ev)
		return m, waitForEventCmd(m.events)

	case eventsClosedMsg:
		m.done = true
		return m, nil
	}

	return m, nil
}

func (m *Model) applyEvent(ev workflow.Event) {
	switch ev.Type {
	case workflow.EventStepStarted:
		m.current = ev.Index
		m.statuses[ev.Index] = statusRunning

	case workflow.EventStepOutput:
		m.appendOutput(ev.Line)

	case workflow.EventStepSkipped:
		m.statuses[ev.Index] = statusSkipped

	case workflow.EventStepFinished:
		m.exitCodes[ev.Index] = ev.ExitCode
		if ev.Err != nil {
			m.statuses[ev.Index] = statusFailed
		} else {
			m.statuses[ev.Index] = statusDone
		}

	case workflow.EventDone:
		m.err = ev.Err
	}
}

// appendOutput splits raw output chunks into tail lines, keeping incomplete
// trailing lines until the next chunk completes them.
func (m *Model) appendOutput(chunk string) {
	text := m.partial + chunk
	lines := strings.Split(text, "\n")
	m.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		m.output = append(m.output, line)
	}
	if len(m.output) > outputTailLines {
		m.output = m.output[len(m.output)-outputTailLines:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	title := m.wf.Name
	if title == "" {
		title = "workflow"
	}
	b.WriteString(titleStyle.Render("bioblocks · "+title) + "\n\n")

	for i, step := range m.wf.Steps {
		var marker, rendered string
		switch m.statuses[i] {
		case statusRunning:
			marker = m.spinner.View()
			rendered = stepRunningStyle.Render(step.Name)
		case statusDone:
			marker = stepDoneStyle.Render("✓")
			rendered = stepDoneStyle.Render(step.Name)
		case statusSkipped:
			marker = stepPendingStyle.Render("✓")
			rendered = stepPendingStyle.Render(step.Name + " (skipped)")
		case statusFailed:
			marker = stepFailedStyle.Render("✗")
			rendered = stepFailedStyle.Render(fmt.Sprintf("%s (exit %d)", step.Name, m.exitCodes[i]))
		default:
			marker = stepPendingStyle.Render("·")
			rendered = stepPendingStyle.Render(step.Name)
		}
		b.WriteString(fmt.Sprintf(" %s %s %s\n", marker, rendered, blockNameStyle.Render("["+step.Block+"]")))
	}

	b.WriteString("\n")
	b.WriteString(outputBoxStyle.Width(max(m.width-2, 40)).Render(m.renderTail()))
	b.WriteString("\n")

	if m.done {
		if m.err != nil {
			b.WriteString(errorStyle.Render("Workflow failed: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(stepDoneStyle.Render("Workflow completed successfully.") + "\n")
		}
	}

	b.WriteString(footerStyle.Render("  ") + footerKeyStyle.Render("q") + footerStyle.Render(" quit"))
	b.WriteString("\n")
	return b.String()
}

// renderTail shows the last lines of output that fit in the available height.
func (m Model) renderTail() string {
	visible := 10
	if m.height > 0 {
		// Leave room for the title, the step list and the footer.
		visible = max(m.height-len(m.wf.Steps)-8, 3)
	}
	lines := m.output
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	if len(lines) == 0 {
		return "waiting for output..."
	}
	return strings.Join(lines, "\n")
}
