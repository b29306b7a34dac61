package extractor

import (
	"strings"
	"testing"
)

func TestBuildExtractArgs(t *testing.T) {
	tests := []struct {
		name            string
		index           string
		codec           string
		includeProgress bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:            "direct convert with progress",
			index:           "2",
			codec:           "srt",
			includeProgress: true,
			wantContains:    []string{"-map 0:2", "-c:s srt", "-progress pipe:1", "-nostats", "-analyzeduration 100M", "-probesize 100M"},
		},
		{
			name:            "raw copy without progress",
			index:           "3",
			codec:           "copy",
			includeProgress: false,
			wantContains:    []string{"-map 0:3", "-c:s copy"},
			wantNotContains: []string{"-progress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := BuildExtractArgs("/in/movie.mkv", tt.index, tt.codec, "/out/movie.eng.2.srt", tt.includeProgress)
			joined := strings.Join(args, " ")

			if args[0] != "-y" {
				t.Errorf("first arg = %q, want -y", args[0])
			}
			if args[len(args)-1] != "/out/movie.eng.2.srt" {
				t.Errorf("last arg = %q, want output path", args[len(args)-1])
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(joined, want) {
					t.Errorf("args missing %q: %s", want, joined)
				}
			}
			for _, nw := range tt.wantNotContains {
				if strings.Contains(joined, nw) {
					t.Errorf("args unexpectedly contain %q: %s", nw, joined)
				}
			}
		})
	}
}

func TestBuildProbeArgs(t *testing.T) {
	got := strings.Join(BuildProbeArgs("/m/a b.mkv"), " ")
	want := "-v error -show_entries stream=index,codec_type,codec_name:stream_tags=language -select_streams s -of csv=p=0 /m/a b.mkv"
	if got != want {
		t.Errorf("BuildProbeArgs = %q, want %q", got, want)
	}

	got = strings.Join(BuildLanguageProbeArgs("/m/x.mkv"), " ")
	want = "-v error -show_entries stream_tags=language -select_streams s -of csv=p=0 /m/x.mkv"
	if got != want {
		t.Errorf("BuildLanguageProbeArgs = %q, want %q", got, want)
	}
}
