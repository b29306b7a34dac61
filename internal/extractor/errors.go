package extractor

import (
	"errors"

	"subextract/internal/util"
)

var (
	// ErrProbeFailed is returned when ffprobe exits non-zero or cannot start.
	ErrProbeFailed = errors.New("probe failed")
	// ErrExtractFailed is returned when ffmpeg exits non-zero or cannot start.
	ErrExtractFailed = errors.New("extraction failed")
	// ErrEmptyOutput is returned when ffmpeg exits 0 but wrote nothing.
	ErrEmptyOutput = errors.New("empty output")
	// ErrUnsupported marks a stream/format combination with no handling.
	ErrUnsupported = errors.New("unsupported stream/format combination")

	ErrTimeout  = util.ErrTimeout
	ErrCanceled = util.ErrCanceled
)

// IsTimeout reports whether err came from a deadline on a tool run.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsCanceled reports whether err came from run cancellation.
func IsCanceled(err error) bool { return errors.Is(err, ErrCanceled) }
