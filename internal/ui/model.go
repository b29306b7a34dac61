package ui

import (
	"context"
	"strings"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"subextract/internal/model"
	"subextract/internal/progress"
	"subextract/internal/report"
)

const (
	logLines    = 8
	slowAfter   = 5 * time.Minute
	maxLineRune = 120
)

// Model renders a single extraction run.
type Model struct {
	cancel context.CancelFunc

	total   int
	stage   progress.Stage
	status  string
	file    string
	percent float64
	counts  map[model.Outcome]int
	logs    []string

	slow      bool
	canceling bool
	done      bool
	report    *report.Report

	spinner spinner.Model
	bar     bubblesprogress.Model

	width  int
	styles Styles
}

// NewModel returns the model for a run over total files. cancel is
// invoked when the user asks to stop.
func NewModel(total int, cancel context.CancelFunc) Model {
	sty := defaultStyles()
	sp := spinner.New()
	sp.Style = sty.Spinner
	return Model{
		cancel:  cancel,
		total:   total,
		stage:   progress.StageScanning,
		status:  "Starting",
		counts:  make(map[model.Outcome]int, len(model.Outcomes)),
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
		styles: sty,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(slowAfter, func(time.Time) tea.Msg { return slowMsg{} }),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The run stops at its next checkpoint; quit waits for runDoneMsg.
			if !m.canceling && !m.done {
				m.canceling = true
				m.status = "Cancelling; waiting for the current tool to stop"
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case updateMsg:
		u := msg.U
		if u.Stage != "" {
			m.stage = u.Stage
		}
		if u.Percent >= 0 {
			m.percent = u.Percent
		}
		if u.File != "" {
			m.file = u.File
		}
		if u.Message != "" && !m.canceling {
			m.status = u.Message
		}

	case toolLogMsg:
		m.pushLog(msg.L.Line)

	case logLineMsg:
		m.pushLog(msg.Line)

	case resultMsg:
		m.counts[msg.R.Outcome]++

	case slowMsg:
		if !m.done {
			m.slow = true
		}
		return m, nil

	case runDoneMsg:
		m.done = true
		m.report = msg.Report
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) pushLog(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	m.logs = append(m.logs, truncate(line, maxLineRune))
	if len(m.logs) > logLines {
		m.logs = m.logs[len(m.logs)-logLines:]
	}
}

// Report returns the run report once the run has finished.
func (m Model) Report() *report.Report { return m.report }
