// Package ocr turns image-based subtitle streams into text subtitles with
// a user-configured OCR command.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"subextract/internal/extractor"
	"subextract/internal/model"
	"subextract/internal/progress"
	"subextract/internal/streams"
	"subextract/internal/util"
	"subextract/internal/util/media"
)

// ErrOCRFailed wraps every failure of the OCR detour.
var ErrOCRFailed = errors.New("ocr failed")

// RawExtractor pulls a raw stream out of a media file.
type RawExtractor interface {
	Extract(ctx context.Context, req extractor.ExtractRequest) (int64, error)
}

// Options configure a Runner.
type Options struct {
	Template       *Template
	DefaultLang    string
	TempDir        string // base for scoped temp dirs; empty = movie directory
	ExtractTimeout time.Duration
	OCRTimeout     time.Duration
	ImageExt       func(codec string) string

	Extractor RawExtractor
	Runner    util.CmdRunner
	Reporter  progress.Reporter
	Logger    zerolog.Logger
}

// Runner executes the OCR detour for one stream at a time.
type Runner struct {
	opts Options
}

// NewRunner returns a Runner with defaults for the missing collaborators.
func NewRunner(opts Options) *Runner {
	if opts.Runner == nil {
		opts.Runner = util.NewDefaultRunner(nil)
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = "eng"
	}
	if opts.ImageExt == nil {
		opts.ImageExt = func(codec string) string { return "." + codec }
	}
	return &Runner{opts: opts}
}

// Request identifies the stream to OCR and where the result goes.
type Request struct {
	File       model.MediaFile
	Stream     model.StreamDescriptor
	TargetPath string
}

// Run extracts the raw stream into a scoped temp dir, runs the OCR command
// and moves its output to req.TargetPath. The temp dir is always removed.
func (r *Runner) Run(ctx context.Context, req Request) (err error) {
	if r.opts.Template == nil {
		return fmt.Errorf("%w: no OCR command configured", ErrOCRFailed)
	}
	if r.opts.Extractor == nil {
		return fmt.Errorf("%w: no extractor configured", ErrOCRFailed)
	}

	stem := req.File.Stem()
	idx := util.SanitizeFilename(req.Stream.Index)
	log := r.opts.Logger.With().Str("file", req.File.Base()).Str("stream", req.Stream.Index).Logger()

	base := r.opts.TempDir
	if base == "" {
		base = req.File.Dir()
	}
	dir, err := util.MakeTempWorkdir(base, fmt.Sprintf("ocr_%s_s%s", util.SanitizeFilename(stem), idx))
	if err != nil {
		return fmt.Errorf("%w: create temp dir: %v", ErrOCRFailed, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", dir).Msg("could not remove OCR temp dir")
		} else {
			log.Debug().Str("dir", dir).Msg("removed OCR temp dir")
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: unexpected panic: %v", ErrOCRFailed, p)
		}
	}()

	rawName := fmt.Sprintf("%s_s%s_temp%s", util.SanitizeFilename(stem), idx, r.opts.ImageExt(req.Stream.Codec))
	rawPath := filepath.Join(dir, rawName)
	log.Info().Str("codec", req.Stream.Codec).Str("lang", req.Stream.Language).Msg("starting OCR")

	if _, err := r.opts.Extractor.Extract(ctx, extractor.ExtractRequest{
		Input:       req.File.Path,
		StreamIndex: req.Stream.Index,
		Codec:       "copy",
		OutputPath:  rawPath,
		Timeout:     r.opts.ExtractTimeout,
		Label:       "Extracting image subtitle " + req.Stream.Index,
	}); err != nil {
		return fmt.Errorf("%w: raw stream: %w", ErrOCRFailed, err)
	}

	ocrOut := filepath.Join(dir, strings.TrimSuffix(rawName, filepath.Ext(rawName))+".srt")
	lang := r.opts.DefaultLang
	if streams.IsLanguageCode(req.Stream.Language) {
		lang = strings.ToLower(req.Stream.Language)
	}
	path, args, env := r.opts.Template.Command(Values{Input: rawPath, Output: ocrOut, Lang: lang})
	log.Info().Str("cmd", util.ShellQuote(path, args)).Msg("running OCR command")

	r.opts.Reporter.Update(progress.Update{
		Stage:   progress.StageOCR,
		Percent: -1,
		File:    req.File.Base(),
		Message: fmt.Sprintf("OCR %s stream %s of %s", lang, req.Stream.Index, req.File.Base()),
	})

	res, runErr := util.RunWithTimeout(ctx, r.opts.Runner, r.opts.OCRTimeout, util.CmdSpec{
		Path: path,
		Args: args,
		Env:  env,
		Dir:  dir,
		StderrLine: func(line string) {
			r.opts.Reporter.Log(progress.Log{File: req.File.Base(), Stream: progress.StreamStderr, Line: line})
		},
		CaptureStdout: true,
	})
	if out := strings.TrimSpace(string(res.Stdout)); out != "" {
		log.Debug().Msg("ocr stdout: " + out)
	}
	if out := strings.TrimSpace(string(res.Stderr)); out != "" {
		log.Debug().Msg("ocr stderr: " + out)
	}
	if runErr != nil {
		if errors.Is(runErr, util.ErrTimeout) || errors.Is(runErr, util.ErrCanceled) {
			return fmt.Errorf("%w: %w", ErrOCRFailed, runErr)
		}
		if res.Code == -1 {
			return fmt.Errorf("%w: could not start %s: %v", ErrOCRFailed, path, runErr)
		}
		return fmt.Errorf("%w: tool exited %d", ErrOCRFailed, res.Code)
	}
	if util.FileSize(ocrOut) == 0 {
		return fmt.Errorf("%w: tool exited 0 but produced no subtitle at %s", ErrOCRFailed, filepath.Base(ocrOut))
	}
	cues, err := place(ocrOut, req.TargetPath)
	if err != nil {
		_ = util.RemoveIfExists(req.TargetPath)
		return fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	log.Info().Str("output", filepath.Base(req.TargetPath)).Int("cues", cues).Msg("OCR complete")
	return nil
}

// place moves the tool's SRT output to target, converting it when the
// target asks for another text format.
func place(srt, target string) (int, error) {
	if strings.EqualFold(filepath.Ext(target), ".srt") {
		if err := util.MoveFile(srt, target); err != nil {
			return 0, fmt.Errorf("move result: %w", err)
		}
		return media.CountCues(target), nil
	}
	return media.ConvertSubtitle(srt, target)
}
