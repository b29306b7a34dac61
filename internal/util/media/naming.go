package media

import (
	"path/filepath"
	"strings"

	"subextract/internal/model"
)

// SanitizeLanguageTag keeps only [A-Za-z0-9_.-]; an empty result is "und".
func SanitizeLanguageTag(lang string) string {
	return keepSafe(lang, "und")
}

// SanitizeStreamIndex applies the same character set to a stream index;
// an empty result is "0".
func SanitizeStreamIndex(index string) string {
	return keepSafe(index, "0")
}

func keepSafe(s, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// SubtitlePath returns "{dir}/{stem}.{lang}.{index}{ext}" next to the source.
// The stream index keeps names unique within one file.
func SubtitlePath(file model.MediaFile, st model.StreamDescriptor, ext string) string {
	name := file.Stem() + "." + SanitizeLanguageTag(st.Language) + "." + SanitizeStreamIndex(st.Index) + ext
	return filepath.Join(file.Dir(), name)
}
