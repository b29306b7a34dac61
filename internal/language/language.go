// Package language turns ISO 639-2 subtitle tags into display names.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic maps ISO 639-2/B codes, common in container tags, to
// the terminology codes x/text understands.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

var namer = display.English.Languages()

// Normalize lowercases a tag and maps bibliographic codes to their
// terminology form.
func Normalize(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if t, ok := bibliographic[c]; ok {
		return t
	}
	return c
}

// Name returns the English display name for a language tag, or "" when
// the tag is not a known language.
func Name(code string) string {
	c := Normalize(code)
	switch c {
	case "", "und":
		return "Undetermined"
	case "mul":
		return "Multiple languages"
	case "zxx":
		return "No linguistic content"
	}
	base, err := language.ParseBase(c)
	if err != nil {
		return ""
	}
	return namer.Name(base)
}
