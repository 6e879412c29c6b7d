// Interactive progress UI for the load command.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scribeware/wasmload/events"
	"github.com/scribeware/wasmload/loader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	moduleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type moduleRow struct {
	id      string
	stage   string
	percent int
	attempt int
	failed  bool
	done    bool
}

type loadModel struct {
	events <-chan events.Event
	bar    progress.Model

	order []string
	rows  map[string]*moduleRow
	phase string

	doneMsg *loadDoneMsg
}

type loadDoneMsg struct {
	proxy *loader.Proxy
	err   error
}

type eventMsg events.Event

type streamClosedMsg struct{}

func newLoadModel(ch <-chan events.Event) *loadModel {
	return &loadModel{
		events: ch,
		bar:    progress.New(progress.WithDefaultGradient()),
		rows:   make(map[string]*moduleRow),
	}
}

func (m *loadModel) Init() tea.Cmd {
	return m.waitForEvent
}

func (m *loadModel) waitForEvent() tea.Msg {
	e, ok := <-m.events
	if !ok {
		return streamClosedMsg{}
	}
	return eventMsg(e)
}

func (m *loadModel) row(id string) *moduleRow {
	r, ok := m.rows[id]
	if !ok {
		r = &moduleRow{id: id, attempt: 1}
		m.rows[id] = r
		m.order = append(m.order, id)
	}
	return r
}

func (m *loadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case eventMsg:
		m.apply(events.Event(msg))
		return m, m.waitForEvent

	case streamClosedMsg:
		return m, tea.Quit

	case loadDoneMsg:
		m.doneMsg = &msg
		return m, tea.Quit
	}
	return m, nil
}

func (m *loadModel) apply(e events.Event) {
	switch e.Type {
	case events.PhaseStarted:
		m.phase = e.Phase

	case events.ModuleLoadStarted:
		r := m.row(e.Module)
		r.attempt = e.Attempt
		if e.Attempt > 1 {
			r.percent = 0
			r.stage = "retry"
		}

	case events.ModuleLoadProgress:
		r := m.row(e.Module)
		r.stage = e.Stage
		r.percent = e.Percent

	case events.ModuleLoadComplete:
		r := m.row(e.Module)
		r.percent = 100
		r.stage = "done"
		r.done = true

	case events.ModuleLoadFailed:
		r := m.row(e.Module)
		r.stage = "failed"
		r.failed = true

	case events.FallbackStarted:
		m.phase = "fallback"
	}
}

func (m *loadModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wasmload"))
	if m.phase != "" {
		b.WriteString(" ")
		b.WriteString(stageStyle.Render(m.phase + " phase"))
	}
	b.WriteString("\n\n")

	for _, id := range m.order {
		r := m.rows[id]

		label := moduleStyle.Render(fmt.Sprintf("%-12s", r.id))
		switch {
		case r.failed:
			b.WriteString(fmt.Sprintf("%s %s\n", label, errorStyle.Render("failed")))
		case r.done:
			b.WriteString(fmt.Sprintf("%s %s\n", label, okStyle.Render("loaded")))
		default:
			suffix := stageStyle.Render(r.stage)
			if r.attempt > 1 {
				suffix += helpStyle.Render(fmt.Sprintf(" (attempt %d)", r.attempt))
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n",
				label, m.bar.ViewAs(float64(r.percent)/100), suffix))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+c abort"))
	return b.String()
}

// loadInteractive drives LoadModules under the progress UI.
func loadInteractive(ctx context.Context, ld *loader.Loader, features []string) (*loader.Proxy, error) {
	ch, cancel := ld.Events().Chan(256)
	defer cancel()

	p := tea.NewProgram(newLoadModel(ch))

	go func() {
		proxy, err := ld.LoadModules(ctx, features)
		p.Send(loadDoneMsg{proxy: proxy, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(*loadModel)
	if m.doneMsg == nil {
		return nil, fmt.Errorf("loading aborted")
	}
	return m.doneMsg.proxy, m.doneMsg.err
}
