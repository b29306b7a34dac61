// Package pipeline resolves extraction plans and drives a run over a list
// of media files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"subextract/internal/extractor"
	"subextract/internal/library"
	"subextract/internal/model"
	"subextract/internal/ocr"
	"subextract/internal/progress"
	"subextract/internal/report"
	"subextract/internal/streams"
	"subextract/internal/util"
	"subextract/internal/util/media"
)

// StreamExtractor probes files and extracts single streams.
type StreamExtractor interface {
	Probe(ctx context.Context, input string) (string, error)
	Extract(ctx context.Context, req extractor.ExtractRequest) (int64, error)
}

// OCRRunner converts one image-based stream to a text subtitle.
type OCRRunner interface {
	Run(ctx context.Context, req ocr.Request) error
}

// Service runs the probe → filter → plan → extract workflow over files.
type Service struct {
	settings  model.Settings
	runner    util.CmdRunner
	reporter  progress.Reporter
	logger    zerolog.Logger
	runID     string
	extractor StreamExtractor
	ocr       OCRRunner
	ocrReady  bool
	hasSubs   func(model.MediaFile) (bool, error)
}

// Option configures a Service.
type Option func(*Service)

// WithSettings sets the run configuration.
func WithSettings(st model.Settings) Option {
	return func(s *Service) {
		s.settings = st
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithLogger sets the run logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithRunID sets the identifier stamped on the report.
func WithRunID(id string) Option {
	return func(s *Service) {
		s.runID = id
	}
}

// WithExtractor replaces the ffprobe/ffmpeg extractor.
func WithExtractor(e StreamExtractor) Option {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithOCR replaces the OCR runner built from settings.
func WithOCR(r OCRRunner) Option {
	return func(s *Service) {
		s.ocr = r
	}
}

// NewService constructs a Service, building the extractor and OCR runner
// from settings unless they were injected.
func NewService(opts ...Option) *Service {
	s := &Service{
		reporter: progress.Nop{},
		logger:   zerolog.Nop(),
		hasSubs:  library.HasExistingSubtitles,
	}
	for _, o := range opts {
		o(s)
	}
	if s.reporter == nil {
		s.reporter = progress.Nop{}
	}
	if s.runner == nil {
		var trace func(string)
		if s.settings.Verbose {
			trace = func(line string) { s.logger.Debug().Msg(line) }
		}
		s.runner = util.NewDefaultRunner(trace)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.extractor == nil {
		s.extractor = extractor.New(extractor.Options{
			FFmpegPath:   s.settings.FFmpegPath,
			FFprobePath:  s.settings.FFprobePath,
			ProbeTimeout: s.settings.ProbeTimeout,
			Runner:       s.runner,
			Reporter:     s.reporter,
			Logger:       s.logger,
		})
	}
	if s.ocr == nil && s.settings.OCR.Enabled && s.settings.OCR.Command != "" {
		tpl, err := ocr.ParseTemplate(s.settings.OCR.Command)
		if err != nil {
			s.logger.Warn().Err(err).Msg("OCR disabled")
		} else {
			s.ocr = ocr.NewRunner(ocr.Options{
				Template:       tpl,
				DefaultLang:    s.settings.OCR.DefaultLang,
				TempDir:        s.settings.OCR.TempDir,
				ExtractTimeout: s.settings.ExtractTimeout,
				OCRTimeout:     s.settings.OCRTimeout,
				ImageExt:       s.settings.ImageExtension,
				Extractor:      s.extractor,
				Runner:         s.runner,
				Reporter:       s.reporter,
				Logger:         s.logger,
			})
		}
	}
	s.ocrReady = s.ocr != nil && s.settings.OCR.Enabled
	return s
}

// RunID returns the identifier of the runs started by this service.
func (s *Service) RunID() string { return s.runID }

// Run processes files in order and returns the categorized report.
// Cancelling ctx stops the run at the next checkpoint and kills the
// running tool; files not reached stay unclassified.
func (s *Service) Run(ctx context.Context, files []model.MediaFile) *report.Report {
	rep := report.New(s.runID, len(files))
	total := len(files)
	started := time.Now()

	s.logger.Info().
		Str("run_id", s.runID).
		Int("files", total).
		Str("format", string(s.settings.Format)).
		Str("languages", s.settings.Languages.String()).
		Bool("skip_existing", s.settings.SkipExisting).
		Msg("run started")
	if s.ocrReady {
		s.logger.Info().Msg("OCR online; image subtitles will be recognized for text formats")
	} else {
		s.logger.Info().Msg("OCR offline; image subtitles will be copied or skipped for text formats")
	}

	for i, f := range files {
		if ctx.Err() != nil {
			rep.Abort()
			break
		}
		s.reporter.Update(progress.Update{
			Stage:   progress.StageScanning,
			Percent: percent(rep.Engaged(), total),
			File:    f.Base(),
			Message: fmt.Sprintf("Scanning file (%d/%d): %s", i+1, total, f.Base()),
		})
		if canceled := s.processFile(ctx, f, rep); canceled {
			rep.Abort()
			break
		}
		rep.Engage()
		s.reporter.Update(progress.Update{
			Stage:   progress.StageScanning,
			Percent: percent(rep.Engaged(), total),
			File:    f.Base(),
			Message: fmt.Sprintf("Finished %s", f.Base()),
		})
	}

	summary := rep.Summary()
	ev := s.logger.Info().Dur("elapsed", time.Since(started).Round(time.Second))
	ev.Msg(summary)
	for _, line := range rep.Breakdown() {
		s.logger.Info().Msg(line)
	}

	final := progress.Update{Stage: progress.StageCompleted, Percent: 100, Message: summary}
	if rep.Aborted() {
		final = progress.Update{Stage: progress.StageCanceled, Percent: -1, Message: summary}
	}
	s.reporter.Update(final)
	return rep
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// processFile handles one file and reports whether cancellation was
// observed before the file was fully processed.
func (s *Service) processFile(ctx context.Context, f model.MediaFile, rep *report.Report) (canceled bool) {
	log := s.logger.With().Str("file", f.Base()).Logger()
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Str("stack", string(debug.Stack())).Msg("unexpected failure")
			rep.AddError(f, fmt.Sprintf("unexpected failure: %v", p))
			rep.Classify(f, model.OutcomeErrored)
			s.emitResult(f, rep, fmt.Errorf("unexpected failure: %v", p))
			canceled = false
		}
	}()

	if s.settings.SkipExisting {
		has, err := s.hasSubs(f)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("could not check for existing subtitles; continuing")
		case has:
			log.Info().Msg("existing subtitle file found; skipping")
			rep.Classify(f, model.OutcomeSkippedExisting)
			s.emitResult(f, rep, nil)
			return false
		}
	}

	s.reporter.Update(progress.Update{Stage: progress.StageProbing, Percent: -1, File: f.Base(), Message: "Probing " + f.Base()})
	raw, err := s.extractor.Probe(ctx, f.Path)
	if err != nil {
		switch {
		case extractor.IsCanceled(err):
			return true
		case extractor.IsTimeout(err):
			log.Warn().Err(err).Msg("probe timed out")
			rep.AddError(f, err.Error())
			rep.Classify(f, model.OutcomeTimedOut)
		default:
			log.Error().Err(err).Msg("probe failed")
			rep.AddError(f, err.Error())
			rep.Classify(f, model.OutcomeErrored)
		}
		s.emitResult(f, rep, err)
		return false
	}

	all := streams.Parse(raw)
	if len(all) == 0 {
		log.Info().Msg("no subtitle streams found")
		rep.Classify(f, model.OutcomeNoSubtitles)
		s.emitResult(f, rep, nil)
		return false
	}
	for _, st := range all {
		log.Debug().Str("stream", st.Index).Str("lang", st.Language).Str("codec", st.Codec).Msg("detected subtitle stream")
	}

	selected := streams.Filter(all, s.settings.Languages)
	if len(selected) == 0 {
		log.Info().Str("languages", s.settings.Languages.String()).Msg("no subtitle streams match the language filter")
		return false
	}

	var (
		extracted int
		errored   bool
		timedOut  bool
		lastErr   error
	)
streamLoop:
	for _, st := range selected {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		plan := ResolvePlan(f, st, s.settings, s.ocrReady)
		err := s.execute(ctx, f, st, plan)
		switch {
		case err == nil:
			extracted++
		case extractor.IsCanceled(err):
			log.Info().Str("stream", st.Index).Msg("stream interrupted by cancellation")
			canceled = true
			break streamLoop
		case extractor.IsTimeout(err) && plan.Method == model.MethodOCR:
			log.Warn().Err(err).Str("stream", st.Index).Msg("OCR timed out; continuing with the next stream")
			rep.AddError(f, streamNote(st, err))
			timedOut, lastErr = true, err
		case extractor.IsTimeout(err):
			log.Warn().Err(err).Str("stream", st.Index).Msg("timed out; abandoning remaining streams of this file")
			rep.AddError(f, streamNote(st, err))
			timedOut, lastErr = true, err
			break streamLoop
		default:
			log.Error().Err(err).Str("stream", st.Index).Msg("stream not extracted")
			rep.AddError(f, streamNote(st, err))
			errored, lastErr = true, err
		}
	}

	rep.AddExtracted(f, extracted)
	if canceled {
		log.Info().Int("streams", extracted).Msg("cancelled before the file finished; left unclassified")
		return true
	}
	classified := true
	switch {
	case timedOut:
		rep.Classify(f, model.OutcomeTimedOut)
	case extracted > 0:
		rep.Classify(f, model.OutcomeSucceeded)
		log.Info().Int("streams", extracted).Msg("file processed")
	case errored:
		rep.Classify(f, model.OutcomeErrored)
	default:
		classified = false
	}
	if classified {
		s.emitResult(f, rep, lastErr)
	}
	return canceled
}

// execute runs a resolved plan for one stream.
func (s *Service) execute(ctx context.Context, f model.MediaFile, st model.StreamDescriptor, plan model.Plan) error {
	log := s.logger.With().Str("file", f.Base()).Str("stream", st.Index).Str("lang", st.Language).Logger()

	switch plan.Method {
	case model.MethodSkip:
		return fmt.Errorf("%w: %s", extractor.ErrUnsupported, plan.Reason)

	case model.MethodOCR:
		s.reporter.Update(progress.Update{
			Stage:   progress.StageOCR,
			Percent: -1,
			File:    f.Base(),
			Message: fmt.Sprintf("Running OCR on %s stream %s of %s", st.Language, st.Index, f.Base()),
		})
		if err := s.ocr.Run(ctx, ocr.Request{File: f, Stream: st, TargetPath: plan.OutputPath}); err != nil {
			return err
		}
		log.Info().Str("output", plan.OutputPath).Msg("subtitle recognized")
		return nil
	}

	if isUnknownCopy(plan, st.Codec) {
		log.Warn().Str("codec", st.Codec).Str("ext", plan.Ext).Msg("copying unknown subtitle codec as is")
	}
	if st.Codec == "mov_text" && s.settings.Format == model.FormatCopy {
		log.Info().Msg("converting mov_text to srt instead of copying")
	}

	label := fmt.Sprintf("Extracting %s #%s as %s", st.Language, st.Index, plan.Codec)
	s.reporter.Update(progress.Update{Stage: progress.StageExtracting, Percent: -1, File: f.Base(), Message: label})
	if _, err := s.extractor.Extract(ctx, extractor.ExtractRequest{
		Input:       f.Path,
		StreamIndex: st.Index,
		Codec:       plan.Codec,
		OutputPath:  plan.OutputPath,
		Timeout:     s.settings.ExtractTimeout,
		Label:       label,
	}); err != nil {
		return err
	}

	ev := log.Info().Str("output", plan.OutputPath)
	if cues := media.CountCues(plan.OutputPath); cues >= 0 {
		ev = ev.Int("cues", cues)
	}
	ev.Msg("subtitle extracted")
	return nil
}

func (s *Service) emitResult(f model.MediaFile, rep *report.Report, err error) {
	o, ok := rep.Outcome(f.Path)
	if !ok {
		return
	}
	s.reporter.Result(progress.Result{
		File:      f.Base(),
		Outcome:   o,
		Extracted: rep.ExtractedFor(f.Path),
		Err:       err,
	})
}

func streamNote(st model.StreamDescriptor, err error) string {
	note := fmt.Sprintf("stream %s (%s, %s): %v", st.Index, st.Language, st.Codec, err)
	if errors.Is(err, extractor.ErrUnsupported) {
		return "skipped " + note
	}
	return note
}
