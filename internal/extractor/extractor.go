// Package extractor runs ffprobe and ffmpeg against media files to list
// and pull out subtitle streams.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"subextract/internal/progress"
	"subextract/internal/util"
	"subextract/internal/util/format"
)

// benignStderr is an ffmpeg diagnostic that does not indicate failure
// for subtitle streams.
const benignStderr = "file ended prematurely"

// Options control ffprobe/ffmpeg execution.
type Options struct {
	FFmpegPath   string
	FFprobePath  string
	ProbeTimeout time.Duration

	Runner   util.CmdRunner
	Reporter progress.Reporter
	Logger   zerolog.Logger
}

// Extractor probes and extracts subtitle streams through a CmdRunner.
type Extractor struct {
	opts Options
}

// New returns an Extractor. A nil Runner or Reporter gets a default.
func New(opts Options) *Extractor {
	if opts.Runner == nil {
		opts.Runner = util.NewDefaultRunner(nil)
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	return &Extractor{opts: opts}
}

// Probe returns the raw subtitle stream listing for input.
func (e *Extractor) Probe(ctx context.Context, input string) (string, error) {
	if e.opts.FFprobePath == "" {
		return "", fmt.Errorf("%w: ffprobe path is required", ErrProbeFailed)
	}
	res, err := util.RunWithTimeout(ctx, e.opts.Runner, e.opts.ProbeTimeout, util.CmdSpec{
		Path:          e.opts.FFprobePath,
		Args:          BuildProbeArgs(input),
		CaptureStdout: true,
	})
	if err != nil {
		return "", e.probeError(input, res, err)
	}
	return string(res.Stdout), nil
}

// ProbeLanguages returns the raw language tag listing for input.
func (e *Extractor) ProbeLanguages(ctx context.Context, input string) (string, error) {
	if e.opts.FFprobePath == "" {
		return "", fmt.Errorf("%w: ffprobe path is required", ErrProbeFailed)
	}
	res, err := util.RunWithTimeout(ctx, e.opts.Runner, e.opts.ProbeTimeout, util.CmdSpec{
		Path:          e.opts.FFprobePath,
		Args:          BuildLanguageProbeArgs(input),
		CaptureStdout: true,
	})
	if err != nil {
		return "", e.probeError(input, res, err)
	}
	return string(res.Stdout), nil
}

func (e *Extractor) probeError(input string, res util.CmdResult, err error) error {
	name := filepath.Base(input)
	if IsTimeout(err) || IsCanceled(err) {
		return fmt.Errorf("probe %s: %w", name, err)
	}
	if msg := strings.TrimSpace(string(res.Stderr)); msg != "" {
		e.opts.Logger.Debug().Str("file", name).Str("stderr", msg).Msg("ffprobe stderr")
		return fmt.Errorf("%w: %s: %s", ErrProbeFailed, name, firstLine(msg))
	}
	return fmt.Errorf("%w: %s: %v", ErrProbeFailed, name, err)
}

// ExtractRequest describes one stream extraction.
type ExtractRequest struct {
	Input       string
	StreamIndex string
	Codec       string // -c:s value, "copy" or a target format
	OutputPath  string
	Timeout     time.Duration
	Label       string // status prefix, e.g. "Extracting eng #2"
}

// Extract runs ffmpeg for req and returns the size of the written file.
// Success needs exit 0 and a non-empty output; anything else removes the
// output and returns an error.
func (e *Extractor) Extract(ctx context.Context, req ExtractRequest) (int64, error) {
	if e.opts.FFmpegPath == "" {
		return 0, fmt.Errorf("%w: ffmpeg path is required", ErrExtractFailed)
	}
	if req.Input == "" || req.OutputPath == "" || req.StreamIndex == "" {
		return 0, fmt.Errorf("%w: input, stream index and output are required", ErrExtractFailed)
	}
	if err := util.EnsureDir(filepath.Dir(req.OutputPath)); err != nil {
		return 0, fmt.Errorf("%w: ensure output dir: %v", ErrExtractFailed, err)
	}

	file := filepath.Base(req.Input)
	outName := filepath.Base(req.OutputPath)
	label := req.Label
	if label == "" {
		label = "Extracting stream " + req.StreamIndex
	}
	var ps ProgressState
	log := e.opts.Logger.With().Str("file", file).Str("stream", req.StreamIndex).Logger()

	res, err := util.RunWithTimeout(ctx, e.opts.Runner, req.Timeout, util.CmdSpec{
		Path: e.opts.FFmpegPath,
		Args: BuildExtractArgs(req.Input, req.StreamIndex, req.Codec, req.OutputPath, true),
		StdoutLine: func(line string) {
			if u, ok := ps.UpdateFromLine(line, file, label); ok {
				e.opts.Reporter.Update(u)
			}
		},
		StderrLine: func(line string) {
			e.opts.Reporter.Log(progress.Log{File: file, Stream: progress.StreamStderr, Line: line})
		},
	})

	if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
		log.Debug().Str("output", outName).Msg("ffmpeg stderr: " + stderr)
		if strings.Contains(strings.ToLower(stderr), benignStderr) {
			log.Info().Msg("ffmpeg reported 'file ended prematurely'; usually harmless for subtitle streams")
		}
	}
	log.Debug().Int("code", res.Code).Str("output", outName).Msg("ffmpeg finished")

	if err != nil {
		// Delete incomplete file
		_ = util.RemoveIfExists(req.OutputPath)
		if IsTimeout(err) || IsCanceled(err) {
			return 0, fmt.Errorf("extract %s: %w", outName, err)
		}
		return 0, fmt.Errorf("%w: %s (exit %d): %s", ErrExtractFailed, outName, res.Code, lastLine(string(res.Stderr), err))
	}

	size := util.FileSize(req.OutputPath)
	if size == 0 {
		_ = util.RemoveIfExists(req.OutputPath)
		return 0, fmt.Errorf("%w: %w: ffmpeg exited 0 but %s is empty or missing", ErrExtractFailed, ErrEmptyOutput, outName)
	}
	log.Debug().Str("size", format.HumanizeBytes(size)).Msg("wrote " + outName)
	return size, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func lastLine(stderr string, err error) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err.Error()
	}
	if i := strings.LastIndexByte(stderr, '\n'); i >= 0 {
		return strings.TrimSpace(stderr[i+1:])
	}
	return stderr
}
