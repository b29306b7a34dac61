package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTimeout marks a subprocess killed because its own deadline elapsed.
	ErrTimeout = errors.New("timed out")
	// ErrCanceled marks a subprocess killed because the run was cancelled.
	ErrCanceled = errors.New("canceled")
)

// CmdSpec describes a subprocess to run.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Extra KEY=VALUE pairs appended to the inherited environment
	Dir  string   // Working directory; empty = inherit.

	StdoutLine    func(string) // Called for each stdout line (if non-nil)
	StderrLine    func(string) // Called for each stderr line (if non-nil)
	CaptureStdout bool         // When false and StdoutLine is set, stdout is not buffered
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Stderr []byte
	Code   int
	Err    error
}

// CmdRunner runs subprocesses. The pipeline only talks to tools through
// this interface so tests can substitute a fake.
type CmdRunner interface {
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

// DefaultRunner executes real processes with os/exec.
type DefaultRunner struct {
	// Trace, when set, receives the printable command line before start.
	Trace func(string)
}

// NewDefaultRunner returns a runner that executes real processes.
func NewDefaultRunner(trace func(string)) *DefaultRunner {
	return &DefaultRunner{Trace: trace}
}

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the direct child has been killed.
const waitDelay = 3 * time.Second

// Run executes the command. Stderr is always captured; stdout is captured
// unless a StdoutLine callback is set and CaptureStdout is false.
// A non-zero exit returns an error describing the exit code, while also
// populating CmdResult.Code and the captured buffers.
func (r *DefaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.WaitDelay = waitDelay
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	captureStdout := spec.CaptureStdout || spec.StdoutLine == nil
	stdoutW := &lineWriter{fn: spec.StdoutLine}
	if captureStdout {
		stdoutW.capture = &stdoutBuf
	}
	stderrW := &lineWriter{fn: spec.StderrLine, capture: &stderrBuf}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if r != nil && r.Trace != nil {
		r.Trace("+ " + ShellQuote(spec.Path, spec.Args))
	}

	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, err
	}
	waitErr := cmd.Wait()
	stdoutW.Flush()
	stderrW.Flush()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	res := CmdResult{
		Stdout: stdoutBuf.Bytes(),
		Stderr: stderrBuf.Bytes(),
		Code:   code,
		Err:    waitErr,
	}
	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	return res, nil
}

// RunWithTimeout runs spec under its own deadline derived from ctx.
// A deadline hit wraps ErrTimeout; cancellation of ctx wraps ErrCanceled.
// A command that completed successfully is never reclassified.
// timeout <= 0 disables the deadline.
func RunWithTimeout(ctx context.Context, r CmdRunner, timeout time.Duration, spec CmdSpec) (CmdResult, error) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	res, err := r.Run(runCtx, spec)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: %w", spec.Path, ErrCanceled)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s after %s: %w", spec.Path, timeout, ErrTimeout)
	}
	return res, err
}

// lineWriter splits written bytes into lines for a callback and
// optionally keeps a copy of everything written.
type lineWriter struct {
	mu      sync.Mutex
	fn      func(string)
	capture *bytes.Buffer
	partial []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.capture != nil {
		w.capture.Write(p)
	}
	if w.fn == nil {
		return len(p), nil
	}
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.fn(strings.TrimRight(string(w.partial[:i]), "\r"))
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing line that had no newline.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fn != nil && len(w.partial) > 0 {
		w.fn(strings.TrimRight(string(w.partial), "\r"))
	}
	w.partial = nil
}

// ShellQuote returns a printable shell-like command string for logging.
func ShellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(Quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(Quote(a))
	}
	return b.String()
}

// Quote single-quotes s for a POSIX shell when it contains anything
// the shell would interpret.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!#~") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
