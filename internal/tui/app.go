// Package tui provides a live progress view for analysis runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketscope/internal/orchestrator"
)

// agentStatus tracks a specialist's progress through a run.
type agentStatus int

const (
	statusPending agentStatus = iota
	statusRunning
	statusDone
	statusFailed
)

// EventMsg wraps an orchestrator event for the TUI.
type EventMsg struct {
	Event orchestrator.Event
}

// ReportMsg carries the final report once the run finishes.
type ReportMsg struct {
	Report orchestrator.Report
}

// LogEntry is a single line in the run log.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

// App is the bubbletea model for a single analysis run.
type App struct {
	query    string
	events   <-chan orchestrator.Event
	spinner  spinner.Model
	agents   map[string]agentStatus
	errors   map[string]string
	logs     []LogEntry
	width    int
	quitting bool

	synthesisRunning bool
	done             bool
	report           *orchestrator.Report

	titleStyle lipgloss.Style
	doneStyle  lipgloss.Style
	failStyle  lipgloss.Style
	dimStyle   lipgloss.Style
}

// New creates an App that consumes events from the given channel.
func New(query string, events <-chan orchestrator.Event) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	agents := make(map[string]agentStatus, len(orchestrator.SpecialistNames))
	for _, name := range orchestrator.SpecialistNames {
		agents[name] = statusPending
	}

	return &App{
		query:   query,
		events:  events,
		spinner: sp,
		agents:  agents,
		errors:  make(map[string]string),
		width:   80,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),
		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		failStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Report returns the final report, or nil if the run has not finished.
func (a *App) Report() *orchestrator.Report {
	return a.report
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.waitForEvent())
}

// waitForEvent blocks on the event channel and converts the next event
// into a message. A closed channel ends the subscription.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-a.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case EventMsg:
		a.handleEvent(msg.Event)
		return a, a.waitForEvent()

	case ReportMsg:
		a.report = &msg.Report
		a.done = true
		return a, tea.Quit
	}

	return a, nil
}

// handleEvent updates agent state from an orchestrator event.
func (a *App) handleEvent(event orchestrator.Event) {
	level := "INFO"
	if event.Err != "" {
		level = "ERROR"
	}
	message := event.Message
	if message == "" {
		message = string(event.Type)
	}
	a.logs = append(a.logs, LogEntry{
		Timestamp: event.Timestamp,
		Level:     level,
		Message:   message,
	})

	switch event.Type {
	case orchestrator.EventAgentStarted:
		a.agents[event.AgentName] = statusRunning
	case orchestrator.EventAgentCompleted:
		a.agents[event.AgentName] = statusDone
	case orchestrator.EventAgentFailed:
		a.agents[event.AgentName] = statusFailed
		a.errors[event.AgentName] = event.Err
	case orchestrator.EventSynthesisStarted:
		a.synthesisRunning = true
	case orchestrator.EventSynthesisCompleted:
		a.synthesisRunning = false
	case orchestrator.EventRunDone:
		a.done = true
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Cancelled.\n"
	}

	var b strings.Builder
	b.WriteString(a.titleStyle.Render("Analyzing: "+a.query) + "\n\n")

	for _, name := range orchestrator.SpecialistNames {
		b.WriteString("  " + a.agentLine(name) + "\n")
	}

	b.WriteString("\n  " + a.synthesisLine() + "\n")

	if len(a.logs) > 0 {
		b.WriteString("\n" + a.viewLogs())
	}

	if a.done {
		b.WriteString("\n" + a.dimStyle.Render("Run complete.") + "\n")
	} else {
		b.WriteString("\n" + a.dimStyle.Render("Press q to cancel") + "\n")
	}
	return b.String()
}

// agentLine renders one specialist row.
func (a *App) agentLine(name string) string {
	switch a.agents[name] {
	case statusRunning:
		return fmt.Sprintf("%s %s", a.spinner.View(), name)
	case statusDone:
		return fmt.Sprintf("%s %s", a.doneStyle.Render("✓"), name)
	case statusFailed:
		line := fmt.Sprintf("%s %s", a.failStyle.Render("✗"), name)
		if err := a.errors[name]; err != "" {
			line += a.dimStyle.Render(": " + err)
		}
		return line
	default:
		return a.dimStyle.Render("· " + name)
	}
}

// synthesisLine renders the synthesis row.
func (a *App) synthesisLine() string {
	if a.synthesisRunning {
		return fmt.Sprintf("%s synthesis", a.spinner.View())
	}
	if a.done {
		return fmt.Sprintf("%s synthesis", a.doneStyle.Render("✓"))
	}
	return a.dimStyle.Render("· synthesis")
}

// viewLogs renders the most recent log lines (up to 8).
func (a *App) viewLogs() string {
	start := 0
	if len(a.logs) > 8 {
		start = len(a.logs) - 8
	}

	var b strings.Builder
	for _, entry := range a.logs[start:] {
		ts := entry.Timestamp.Format("15:04:05")
		b.WriteString(a.dimStyle.Render(fmt.Sprintf("  %s [%s] %s", ts, entry.Level, entry.Message)) + "\n")
	}
	return b.String()
}

// Run displays the progress view while runFn executes the analysis.
// It returns the report produced by runFn.
func Run(query string, events <-chan orchestrator.Event, runFn func() orchestrator.Report) (orchestrator.Report, error) {
	app := New(query, events)
	p := tea.NewProgram(app)

	go func() {
		report := runFn()
		p.Send(ReportMsg{Report: report})
	}()

	model, err := p.Run()
	if err != nil {
		return orchestrator.Report{}, err
	}

	final, ok := model.(*App)
	if !ok || final.report == nil {
		return orchestrator.Report{}, fmt.Errorf("run cancelled")
	}
	return *final.report, nil
}
