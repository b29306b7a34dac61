package streams

import (
	"sort"
	"strings"

	"subextract/internal/model"
)

// Parse reads ffprobe csv output of the form
// "index,codec_type,codec_name[,language]" and returns the subtitle streams
// in input order. Lines that do not describe a subtitle stream are dropped.
func Parse(raw string) []model.StreamDescriptor {
	out := []model.StreamDescriptor{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		index := parts[0]
		typ := strings.ToLower(parts[1])
		name := strings.ToLower(parts[2])

		var codec string
		switch {
		case typ == "subtitle":
			codec = name
		case name == "subtitle":
			// some ffprobe builds swap the two columns
			codec = typ
		case isKnownCodec(typ):
			codec = typ
		default:
			continue
		}
		if index == "" || codec == "" {
			continue
		}

		lang := "und"
		if len(parts) > 3 && parts[3] != "" {
			lang = strings.ToLower(parts[3])
		}
		out = append(out, model.StreamDescriptor{Index: index, Language: lang, Codec: codec})
	}
	return out
}

// ParseLanguages reads "-show_entries stream_tags=language" output and
// returns the distinct 3-letter codes, lower-cased and sorted.
func ParseLanguages(raw string) []string {
	seen := map[string]struct{}{}
	for _, line := range strings.Split(raw, "\n") {
		code := strings.ToLower(strings.TrimSpace(line))
		if !IsLanguageCode(code) {
			continue
		}
		seen[code] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsLanguageCode reports whether s is exactly three ASCII letters.
func IsLanguageCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// Filter keeps the streams whose language passes f, preserving order.
func Filter(in []model.StreamDescriptor, f model.LanguageFilter) []model.StreamDescriptor {
	if f.All() {
		return in
	}
	out := make([]model.StreamDescriptor, 0, len(in))
	for _, s := range in {
		if f.Contains(s.Language) {
			out = append(out, s)
		}
	}
	return out
}
