package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"subextract/internal/config"
	"subextract/internal/dirs"
	"subextract/internal/library"
	"subextract/internal/logging"
	"subextract/internal/model"
	"subextract/internal/ocr"
	"subextract/internal/pipeline"
	"subextract/internal/progress"
	"subextract/internal/report"
	"subextract/internal/runlock"
	"subextract/internal/ui"
	"subextract/internal/util/deps"
)

type runMode struct {
	ForceTUI bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run [paths...]",
		Short:         "Extract subtitles from movie files and folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}
	config.RegisterRunFlags(cmd.Flags())
	return cmd
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	config.BindRunFlags(cmd.Flags())
	return nil
}

// loadSettings reads the configuration and resolves tool paths.
func loadSettings() (model.Settings, error) {
	st, err := config.Load()
	if err != nil {
		return st, &ExitError{Code: ExitCLIError, Err: err}
	}
	if st.FFmpegPath, err = deps.FindFFmpeg(st.FFmpegPath); err != nil {
		return st, &ExitError{Code: ExitMissingDep, Err: err}
	}
	if st.FFprobePath, err = deps.FindFFprobe(st.FFprobePath); err != nil {
		return st, &ExitError{Code: ExitMissingDep, Err: err}
	}
	return st, nil
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	st, err := loadSettings()
	if err != nil {
		return err
	}
	if st.OCR.Enabled {
		if err := checkOCRTool(st.OCR.Command); err != nil {
			return &ExitError{Code: ExitMissingDep, Err: err}
		}
	}

	stderr := cmd.ErrOrStderr()
	scanLog, err := logging.New(logging.Options{Console: stderr, NoColor: !colorStderr(), Verbose: st.Verbose})
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	files, err := library.Scan(args, scanLog.Logger)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No movie files found.")
		return nil
	}

	stateDir, err := dirs.StateDir()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("resolve state dir: %w", err)}
	}
	lock, err := runlock.Acquire(stateDir)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer func() { _ = lock.Release() }()

	useTUI := mode.ForceTUI || (!config.NoUI() && isTerminal())
	runID := uuid.NewString()

	run := func(ctx context.Context, rep progress.Reporter, console io.Writer) *report.Report {
		opts := logging.Options{RunID: runID, Dir: stateDir, Console: console, NoColor: useTUI || !colorStderr(), Verbose: st.Verbose}
		rl, err := logging.New(opts)
		if err != nil {
			opts.Dir = ""
			rl, _ = logging.New(opts)
			rl.Warn().Err(err).Msg("run log file disabled")
		}
		defer rl.Close()

		svc := pipeline.NewService(
			pipeline.WithSettings(st),
			pipeline.WithReporter(rep),
			pipeline.WithLogger(rl.Logger),
			pipeline.WithRunID(runID),
		)
		r := svc.Run(ctx, files)
		if p := rl.Path(); p != "" {
			rl.Info().Str("path", p).Msg("run log saved")
		}
		return r
	}

	var rep *report.Report
	if useTUI {
		rep, err = ui.Run(cmd.Context(), len(files), run)
		if err != nil && rep == nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
	} else {
		rep = run(cmd.Context(), newPlainReporter(stderr), stderr)
	}

	fmt.Fprintln(cmd.OutOrStdout(), rep.Table())
	return exitFor(rep)
}

func exitFor(rep *report.Report) error {
	switch {
	case rep.Aborted():
		return &ExitError{Code: ExitCanceled, Err: errors.New("run canceled")}
	case rep.HasFailures():
		n := rep.Count(model.OutcomeErrored) + rep.Count(model.OutcomeTimedOut)
		return &ExitError{Code: ExitPartial, Err: fmt.Errorf("%d file(s) failed or timed out", n)}
	}
	return nil
}

func checkOCRTool(command string) error {
	tpl, err := ocr.ParseTemplate(command)
	if err != nil {
		return err
	}
	if _, err := deps.FindTool(tpl.Program(), tpl.Program()); err != nil {
		return fmt.Errorf("OCR tool: %w", err)
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// colorStderr reports whether log lines on stderr may carry ANSI colors.
func colorStderr() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// plainReporter prints run-level progress lines. Per-stream details are
// left to the logger.
type plainReporter struct {
	mu   sync.Mutex
	w    io.Writer
	last float64
}

func newPlainReporter(w io.Writer) *plainReporter {
	return &plainReporter{w: w, last: -1}
}

func (p *plainReporter) Update(u progress.Update) {
	if u.Percent < 0 || u.Stage != progress.StageScanning {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if u.Percent == p.last && u.Message == "" {
		return
	}
	p.last = u.Percent
	fmt.Fprintf(p.w, "[%3.0f%%] %s\n", u.Percent, u.Message)
}

func (p *plainReporter) Log(progress.Log) {}

func (p *plainReporter) Result(r progress.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "       %s: %s\n", r.File, r.Outcome)
}
