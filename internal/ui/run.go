package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"subextract/internal/logging"
	"subextract/internal/progress"
	"subextract/internal/report"
)

// RunFunc performs the run. Progress goes to rep; logs is the console
// sink for the run logger.
type RunFunc func(ctx context.Context, rep progress.Reporter, logs io.Writer) *report.Report

// Run shows the TUI while fn executes and returns fn's report. The
// program only exits after fn has returned, also on cancellation.
func Run(ctx context.Context, total int, fn RunFunc) (*report.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(NewModel(total, cancel), tea.WithoutSignalHandler())
	done := make(chan *report.Report, 1)

	go func() {
		rep := fn(ctx, teaReporter{prog: prog}, logging.NewLineWriter(func(line string) {
			prog.Send(logLineMsg{Line: line})
		}))
		done <- rep
		prog.Send(runDoneMsg{Report: rep})
	}()

	_, err := prog.Run()
	if err != nil {
		cancel()
	}
	return <-done, err
}

// teaReporter forwards pipeline events into the program. Send returns
// immediately once the program has exited.
type teaReporter struct {
	prog *tea.Program
}

func (r teaReporter) Update(u progress.Update) { r.prog.Send(updateMsg{U: u}) }
func (r teaReporter) Log(l progress.Log)       { r.prog.Send(toolLogMsg{L: l}) }
func (r teaReporter) Result(res progress.Result) {
	r.prog.Send(resultMsg{R: res})
}
