package model

import (
	"errors"
	"path/filepath"
	"strings"
)

// MediaFile identifies one candidate video file by absolute path.
type MediaFile struct {
	Path string
}

// NewMediaFile resolves path to an absolute MediaFile.
func NewMediaFile(path string) (MediaFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return MediaFile{}, errors.New("empty media path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return MediaFile{}, err
	}
	return MediaFile{Path: abs}, nil
}

// Base returns the file name including extension.
func (m MediaFile) Base() string {
	return filepath.Base(m.Path)
}

// Dir returns the containing directory.
func (m MediaFile) Dir() string {
	return filepath.Dir(m.Path)
}

// Stem returns the file name without its extension.
func (m MediaFile) Stem() string {
	base := m.Base()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// StreamDescriptor is one subtitle stream reported by the probe.
// Index is kept as the probe's opaque token.
type StreamDescriptor struct {
	Index    string
	Language string // lowercase tag or "und"
	Codec    string // lowercase codec class
}

// Method selects how a stream is turned into an output file.
type Method int

const (
	MethodSkip Method = iota
	MethodDirectCopy
	MethodDirectConvert
	MethodOCR
)

func (m Method) String() string {
	switch m {
	case MethodDirectCopy:
		return "copy"
	case MethodDirectConvert:
		return "convert"
	case MethodOCR:
		return "ocr"
	default:
		return "skip"
	}
}

// Plan is the resolved extraction decision for one stream.
type Plan struct {
	Method     Method
	Codec      string // value for ffmpeg -c:s
	Ext        string // output extension including the dot
	OutputPath string
	Reason     string // why the stream is skipped, MethodSkip only
}

// Outcome is the single run-level classification of a file.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota + 1
	OutcomeNoSubtitles
	OutcomeTimedOut
	OutcomeErrored
	OutcomeSkippedExisting
)

// Outcomes lists every classification in report order.
var Outcomes = []Outcome{
	OutcomeSucceeded,
	OutcomeSkippedExisting,
	OutcomeNoSubtitles,
	OutcomeTimedOut,
	OutcomeErrored,
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeNoSubtitles:
		return "no subtitles"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeErrored:
		return "errored"
	case OutcomeSkippedExisting:
		return "skipped (existing)"
	default:
		return "unclassified"
	}
}
