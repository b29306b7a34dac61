package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subextract/internal/model"
)

func newViper(t *testing.T, values map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	s, err := FromViper(newViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, model.FormatSRT, s.Format)
	assert.True(t, s.Languages.All())
	assert.Equal(t, time.Minute, s.ProbeTimeout)
	assert.Equal(t, 10*time.Minute, s.ExtractTimeout)
	assert.Equal(t, 30*time.Minute, s.OCRTimeout)
	assert.Equal(t, "eng", s.OCR.DefaultLang)
	assert.False(t, s.OCR.Enabled)
	assert.Equal(t, ".sup", s.ImageExtension("hdmv_pgs_subtitle"))
	assert.Equal(t, ".sub", s.ImageExtension("dvd_subtitle"))
}

func TestFromViper_Values(t *testing.T) {
	s, err := FromViper(newViper(t, map[string]any{
		KeyFormat:         "VTT",
		KeyLanguages:      []string{"eng,fre", "GER"},
		KeySkipExisting:   true,
		KeyProbeTimeout:   30,
		KeyExtractTimeout: "90s",
		KeyOCRTimeout:     "120",
		KeyOCREnabled:     true,
		KeyOCRCommand:     "pgsrip -l {LANG_3_CODE} -o {OUTPUT_SRT_PATH} {INPUT_FILE_PATH}",
		KeyOCRTempDir:     "/tmp/ocr",
	}))
	require.NoError(t, err)

	assert.Equal(t, model.FormatVTT, s.Format)
	assert.Equal(t, []string{"eng", "fre", "ger"}, s.Languages.Codes())
	assert.True(t, s.SkipExisting)
	assert.Equal(t, 30*time.Second, s.ProbeTimeout)
	assert.Equal(t, 90*time.Second, s.ExtractTimeout)
	assert.Equal(t, 2*time.Minute, s.OCRTimeout)
	assert.True(t, s.OCR.Enabled)
	assert.Equal(t, "/tmp/ocr", s.OCR.TempDir)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"format", map[string]any{KeyFormat: "pdf"}, `format "pdf"`},
		{"lang not 3 letters", map[string]any{KeyLanguages: "en"}, `"en" is not a 3-letter code`},
		{"all mixed", map[string]any{KeyLanguages: []string{"all", "eng"}}, "cannot be combined"},
		{"zero timeout", map[string]any{KeyProbeTimeout: 0}, "probe_timeout must be positive"},
		{"bad timeout", map[string]any{KeyOCRTimeout: "soon"}, "ocr_timeout"},
		{"ocr without command", map[string]any{KeyOCREnabled: true}, "ocr.command is empty"},
		{"ocr bad template", map[string]any{KeyOCREnabled: true, KeyOCRCommand: "tool {INPUT_FILE_PATH}"}, "OUTPUT_SRT_PATH"},
		{"ocr lang", map[string]any{KeyOCRLang: "english"}, "ocr.default_lang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(t, tt.values))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromViper_OCRTemplateIgnoredWhenDisabled(t *testing.T) {
	_, err := FromViper(newViper(t, map[string]any{KeyOCRCommand: "tool {BOGUS}"}))
	assert.NoError(t, err)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   any
		want time.Duration
		ok   bool
	}{
		{time.Second, time.Second, true},
		{5, 5 * time.Second, true},
		{int64(2), 2 * time.Second, true},
		{1.5, 1500 * time.Millisecond, true},
		{"45", 45 * time.Second, true},
		{"2m", 2 * time.Minute, true},
		{"later", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, err := duration(tt.in)
		if tt.ok {
			assert.NoError(t, err, "%v", tt.in)
			assert.Equal(t, tt.want, got, "%v", tt.in)
		} else {
			assert.Error(t, err, "%v", tt.in)
		}
	}
}
