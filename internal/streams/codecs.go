// Package streams parses ffprobe subtitle listings and filters them by language.
package streams

import "strings"

// imageCodecs are bitmap subtitle codecs that need OCR to become text.
var imageCodecs = map[string]struct{}{
	"hdmv_pgs_subtitle": {},
	"pgssub":            {},
	"dvd_subtitle":      {},
	"dvdsub":            {},
	"pgs":               {},
}

// textFormats are the text output formats ffmpeg can convert into.
var textFormats = map[string]struct{}{
	"srt": {},
	"ass": {},
	"vtt": {},
}

// SubtitleExtensions are the sibling extensions that count as existing subtitles.
var SubtitleExtensions = []string{".srt", ".ass", ".vtt", ".sub", ".sup"}

// IsImageCodec reports whether codec is a bitmap subtitle codec.
func IsImageCodec(codec string) bool {
	_, ok := imageCodecs[strings.ToLower(codec)]
	return ok
}

// IsTextFormat reports whether name is srt, ass or vtt.
func IsTextFormat(name string) bool {
	_, ok := textFormats[strings.ToLower(name)]
	return ok
}

// IsSubtitleExtension reports whether ext (with dot) is a known subtitle extension.
func IsSubtitleExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SubtitleExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func isKnownCodec(codec string) bool {
	return IsImageCodec(codec) || IsTextFormat(codec)
}
