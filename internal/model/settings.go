package model

import (
	"sort"
	"strings"
	"time"
)

// OutputFormat is the requested subtitle output format.
type OutputFormat string

const (
	FormatSRT  OutputFormat = "srt"
	FormatASS  OutputFormat = "ass"
	FormatVTT  OutputFormat = "vtt"
	FormatCopy OutputFormat = "copy"
)

// Encoder returns the ffmpeg subtitle encoder name for a text target.
func (f OutputFormat) Encoder() string {
	if f == FormatVTT {
		return "webvtt"
	}
	return string(f)
}

// IsText reports whether f is one of the text subtitle targets.
func (f OutputFormat) IsText() bool {
	switch f {
	case FormatSRT, FormatASS, FormatVTT:
		return true
	}
	return false
}

// LanguageFilter selects subtitle streams by language tag.
// The zero value selects every language.
type LanguageFilter struct {
	codes map[string]struct{}
}

// AllLanguages returns a filter that keeps every stream.
func AllLanguages() LanguageFilter { return LanguageFilter{} }

// NewLanguageFilter returns a filter for the given codes. Codes are
// lower-cased; an empty list is equivalent to AllLanguages.
func NewLanguageFilter(codes []string) LanguageFilter {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	if len(set) == 0 {
		return LanguageFilter{}
	}
	return LanguageFilter{codes: set}
}

// All reports whether the filter passes every language.
func (f LanguageFilter) All() bool { return len(f.codes) == 0 }

// Contains reports whether lang passes the filter.
func (f LanguageFilter) Contains(lang string) bool {
	if f.All() {
		return true
	}
	_, ok := f.codes[strings.ToLower(lang)]
	return ok
}

// Codes returns the selected codes sorted, or nil for "all".
func (f LanguageFilter) Codes() []string {
	if f.All() {
		return nil
	}
	out := make([]string, 0, len(f.codes))
	for c := range f.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (f LanguageFilter) String() string {
	if f.All() {
		return "all"
	}
	return strings.Join(f.Codes(), ",")
}

// OCRSettings configures the image-subtitle OCR detour.
type OCRSettings struct {
	Enabled     bool
	Command     string // raw command template, validated by the ocr package
	DefaultLang string // used when the stream tag is not a 3-letter code
	TempDir     string // base for scoped temp dirs; empty = movie directory
}

// Settings is the run configuration. It is built once by the config
// layer and treated as read-only for the whole run.
type Settings struct {
	FFprobePath string
	FFmpegPath  string

	ProbeTimeout   time.Duration
	ExtractTimeout time.Duration
	OCRTimeout     time.Duration

	Format       OutputFormat
	Languages    LanguageFilter
	SkipExisting bool
	OCR          OCRSettings

	// ImageExt maps image codec names to raw output extensions.
	ImageExt map[string]string

	Verbose bool
}

// ImageExtension returns the configured extension for an image codec,
// falling back to "."+codec.
func (s Settings) ImageExtension(codec string) string {
	if ext, ok := s.ImageExt[strings.ToLower(codec)]; ok && ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}
	return "." + codec
}
