package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"subextract/internal/dirs"
	"subextract/internal/model"
	"subextract/internal/ocr"
	"subextract/internal/streams"
)

// Viper keys.
const (
	KeyFFmpeg         = "ffmpeg"
	KeyFFprobe        = "ffprobe"
	KeyVerbose        = "verbose"
	KeyFormat         = "format"
	KeyLanguages      = "languages"
	KeySkipExisting   = "skip_existing"
	KeyNoUI           = "no_ui"
	KeyProbeTimeout   = "probe_timeout"
	KeyExtractTimeout = "extract_timeout"
	KeyOCRTimeout     = "ocr_timeout"
	KeyOCREnabled     = "ocr.enabled"
	KeyOCRCommand     = "ocr.command"
	KeyOCRLang        = "ocr.default_lang"
	KeyOCRTempDir     = "ocr.temp_dir"
	KeyImageExt       = "image_ext"
)

// ErrInvalid marks configuration that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyFFmpeg, "ffmpeg")
	v.SetDefault(KeyFFprobe, "ffprobe")
	v.SetDefault(KeyFormat, string(model.FormatSRT))
	v.SetDefault(KeyLanguages, "all")
	v.SetDefault(KeyProbeTimeout, time.Minute)
	v.SetDefault(KeyExtractTimeout, 10*time.Minute)
	v.SetDefault(KeyOCRTimeout, 30*time.Minute)
	v.SetDefault(KeyOCRLang, "eng")
	v.SetDefault(KeyImageExt, map[string]string{
		"hdmv_pgs_subtitle": ".sup",
		"pgssub":            ".sup",
		"dvd_subtitle":      ".sub",
		"dvdsub":            ".sub",
	})
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is ignored, a broken one is
// returned for the caller to report.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: SUBEXTRACT_*, nested keys use "_" (SUBEXTRACT_OCR_COMMAND)
	viper.SetEnvPrefix("SUBEXTRACT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())

	_ = viper.BindPFlag(KeyVerbose, root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(KeyFFmpeg, root.PersistentFlags().Lookup("ffmpeg"))
	_ = viper.BindPFlag(KeyFFprobe, root.PersistentFlags().Lookup("ffprobe"))

	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// RegisterRunFlags defines the extraction flags on fs.
func RegisterRunFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "srt", "Output format: srt, ass, vtt, copy")
	fs.StringSliceP("lang", "l", []string{"all"}, "Languages to extract (3-letter codes) or 'all'")
	fs.Bool("skip-existing", false, "Skip movies that already have a subtitle file next to them")
	fs.Bool("ocr", false, "Recognize image subtitles for text formats")
	fs.String("ocr-command", "", "OCR command template with {INPUT_FILE_PATH}, {OUTPUT_SRT_PATH}, {LANG_3_CODE}")
	fs.String("ocr-lang", "eng", "OCR language when a stream has no 3-letter tag")
	fs.String("ocr-temp-dir", "", "Base directory for OCR scratch files (default: next to the movie)")
	fs.Duration("probe-timeout", time.Minute, "Timeout for one ffprobe call")
	fs.Duration("extract-timeout", 10*time.Minute, "Timeout for one ffmpeg extraction")
	fs.Duration("ocr-timeout", 30*time.Minute, "Timeout for one OCR tool run")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

var runFlagKeys = map[string]string{
	"format":          KeyFormat,
	"lang":            KeyLanguages,
	"skip-existing":   KeySkipExisting,
	"ocr":             KeyOCREnabled,
	"ocr-command":     KeyOCRCommand,
	"ocr-lang":        KeyOCRLang,
	"ocr-temp-dir":    KeyOCRTempDir,
	"probe-timeout":   KeyProbeTimeout,
	"extract-timeout": KeyExtractTimeout,
	"ocr-timeout":     KeyOCRTimeout,
	"no-ui":           KeyNoUI,
}

// BindRunFlags binds the run flags of the executing command. Commands
// share flag names, so binding happens per invocation rather than at
// construction time.
func BindRunFlags(fs *pflag.FlagSet) {
	for name, key := range runFlagKeys {
		if f := fs.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// Load builds validated Settings from the global Viper instance.
func Load() (model.Settings, error) {
	return FromViper(viper.GetViper())
}

// NoUI reports whether the TUI was disabled by flag, env, or config.
func NoUI() bool {
	return viper.GetBool(KeyNoUI)
}

// FromViper builds validated Settings from v.
func FromViper(v *viper.Viper) (model.Settings, error) {
	var problems []error
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	s := model.Settings{
		FFmpegPath:   strings.TrimSpace(v.GetString(KeyFFmpeg)),
		FFprobePath:  strings.TrimSpace(v.GetString(KeyFFprobe)),
		SkipExisting: v.GetBool(KeySkipExisting),
		Verbose:      v.GetBool(KeyVerbose),
		ImageExt:     map[string]string{},
		OCR: model.OCRSettings{
			Enabled:     v.GetBool(KeyOCREnabled),
			Command:     strings.TrimSpace(v.GetString(KeyOCRCommand)),
			DefaultLang: strings.ToLower(strings.TrimSpace(v.GetString(KeyOCRLang))),
			TempDir:     strings.TrimSpace(v.GetString(KeyOCRTempDir)),
		},
	}
	for codec, ext := range v.GetStringMapString(KeyImageExt) {
		s.ImageExt[strings.ToLower(codec)] = ext
	}

	s.Format = model.OutputFormat(strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat))))
	if !s.Format.IsText() && s.Format != model.FormatCopy {
		bad("format %q: want srt, ass, vtt or copy", s.Format)
	}

	langs, err := parseLanguages(v.GetStringSlice(KeyLanguages))
	if err != nil {
		problems = append(problems, err)
	}
	s.Languages = langs

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{KeyProbeTimeout, &s.ProbeTimeout},
		{KeyExtractTimeout, &s.ExtractTimeout},
		{KeyOCRTimeout, &s.OCRTimeout},
	} {
		val, err := duration(v.Get(d.key))
		switch {
		case err != nil:
			bad("%s: %v", d.key, err)
		case val <= 0:
			bad("%s must be positive, got %s", d.key, val)
		}
		*d.dst = val
	}

	if s.FFmpegPath == "" || s.FFprobePath == "" {
		bad("ffmpeg and ffprobe paths must not be empty")
	}
	if !streams.IsLanguageCode(s.OCR.DefaultLang) {
		bad("ocr.default_lang %q: want a 3-letter code", s.OCR.DefaultLang)
	}
	if s.OCR.Enabled {
		if s.OCR.Command == "" {
			bad("ocr is enabled but ocr.command is empty")
		} else if _, err := ocr.ParseTemplate(s.OCR.Command); err != nil {
			problems = append(problems, err)
		}
	}

	if len(problems) > 0 {
		return s, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
	}
	return s, nil
}

// parseLanguages accepts "all" alone or a list of 3-letter codes; list
// items may themselves be comma separated.
func parseLanguages(raw []string) (model.LanguageFilter, error) {
	var codes []string
	for _, item := range raw {
		for _, c := range strings.Split(item, ",") {
			c = strings.ToLower(strings.TrimSpace(c))
			if c != "" {
				codes = append(codes, c)
			}
		}
	}
	if len(codes) == 0 {
		return model.AllLanguages(), nil
	}
	for _, c := range codes {
		if c == "all" {
			if len(codes) > 1 {
				return model.AllLanguages(), fmt.Errorf("languages: 'all' cannot be combined with other codes")
			}
			return model.AllLanguages(), nil
		}
		if !streams.IsLanguageCode(c) {
			return model.AllLanguages(), fmt.Errorf("languages: %q is not a 3-letter code", c)
		}
	}
	return model.NewLanguageFilter(codes), nil
}

// duration accepts Go duration strings and bare numbers as seconds.
func duration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case nil:
		return 0, errors.New("missing value")
	case time.Duration:
		return x, nil
	case int:
		return time.Duration(x) * time.Second, nil
	case int64:
		return time.Duration(x) * time.Second, nil
	case float64:
		return time.Duration(x * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(n * float64(time.Second)), nil
		}
		return time.ParseDuration(s)
	default:
		return 0, fmt.Errorf("unsupported duration %v", v)
	}
}
