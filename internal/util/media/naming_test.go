package media

import (
	"path/filepath"
	"testing"

	"subextract/internal/model"
)

func TestSanitizeLanguageTag(t *testing.T) {
	tests := map[string]string{
		"eng":       "eng",
		"pt-BR":     "pt-BR",
		"":          "und",
		"??":        "und",
		"../../etc": "....etc",
		"en g/x":    "engx",
	}
	for in, want := range tests {
		if got := SanitizeLanguageTag(in); got != want {
			t.Errorf("SanitizeLanguageTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSubtitlePath(t *testing.T) {
	f := model.MediaFile{Path: filepath.Join("/lib", "Movie.2001.mkv")}
	got := SubtitlePath(f, model.StreamDescriptor{Index: "3", Language: "fre"}, ".sup")
	want := filepath.Join("/lib", "Movie.2001.fre.3.sup")
	if got != want {
		t.Fatalf("SubtitlePath = %q, want %q", got, want)
	}
}

func TestSubtitlePath_IndexStaysInSourceDir(t *testing.T) {
	f := model.MediaFile{Path: filepath.Join("/lib", "Movie.mkv")}
	got := SubtitlePath(f, model.StreamDescriptor{Index: "../../etc/x", Language: "eng"}, ".srt")
	if filepath.Dir(got) != "/lib" {
		t.Fatalf("SubtitlePath escaped the source dir: %q", got)
	}
	if want := filepath.Join("/lib", "Movie.eng.....etcx.srt"); got != want {
		t.Errorf("SubtitlePath = %q, want %q", got, want)
	}
	if got := SanitizeStreamIndex("/"); got != "0" {
		t.Errorf("SanitizeStreamIndex(%q) = %q, want 0", "/", got)
	}
}
