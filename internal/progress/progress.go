package progress

import (
	"time"

	"subextract/internal/model"
)

// Stage identifies a high-level step in the pipeline.
type Stage string

const (
	StageScanning   Stage = "scanning"
	StageProbing    Stage = "probing"
	StageExtracting Stage = "extracting"
	StageOCR        Stage = "ocr"
	StageCompleted  Stage = "completed"
	StageCanceled   Stage = "canceled"
	StageError      Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for the run.
// Percent is the run-wide fraction 0..100; a negative value leaves the
// previously reported fraction in place.
type Update struct {
	Stage   Stage
	Percent float64
	File    string // basename of the file being processed, if any

	MediaTime *time.Duration // optional media time processed by ffmpeg
	Message   string         // short human-friendly status line
}

// Log is a raw subprocess output line.
type Log struct {
	File   string
	Stream LogStream
	Line   string
}

// Result is emitted once per classified file.
type Result struct {
	File      string
	Outcome   model.Outcome
	Extracted int
	Err       error // last error note, nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
// Calls arrive from the pipeline goroutine and must not block for long.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Update(Update) {}
func (Nop) Log(Log)       {}
func (Nop) Result(Result) {}
