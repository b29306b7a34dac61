// Package logging builds the zerolog logger used for a run: a console
// sink (terminal or TUI pane) plus an optional per-run log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	RunID   string
	Dir     string    // directory for the run log file; empty disables it
	Console io.Writer // human-facing sink; nil disables it
	NoColor bool
	Verbose bool // debug level instead of info
}

// RunLog is a logger bound to a run and the file it writes to.
type RunLog struct {
	zerolog.Logger
	path string
	file *os.File
}

// RunLogPath returns the run log location for runID under dir.
func RunLogPath(dir, runID string) string {
	return filepath.Join(dir, fmt.Sprintf("subextract-%s.log", runID))
}

// New creates the run logger. The log file, when enabled, is opened in
// append mode and always carries timestamps without color codes.
func New(opts Options) (*RunLog, error) {
	var (
		writers []io.Writer
		rl      = &RunLog{}
	)
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		})
	}
	if opts.Dir != "" && opts.RunID != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		rl.path = RunLogPath(opts.Dir, opts.RunID)
		f, err := os.OpenFile(rl.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open run log: %w", err)
		}
		rl.file = f
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        f,
			NoColor:    true,
			TimeFormat: time.DateTime,
		})
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.RunID != "" {
		ctx = ctx.Str("run_id", shortID(opts.RunID))
	}
	rl.Logger = ctx.Logger()
	return rl, nil
}

// Path returns the run log file path, or "" when file logging is off.
func (l *RunLog) Path() string { return l.path }

// Close flushes and closes the run log file.
func (l *RunLog) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// LineWriter forwards each complete line written to it to fn. It is
// meant as the Console sink when log lines are rendered inside the TUI.
type LineWriter struct {
	mu  sync.Mutex
	fn  func(string)
	buf []byte
}

// NewLineWriter returns a LineWriter calling fn once per line.
func NewLineWriter(fn func(string)) *LineWriter {
	return &LineWriter{fn: fn}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := strings.IndexByte(string(w.buf), '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		if line != "" {
			w.fn(line)
		}
	}
	return len(p), nil
}
