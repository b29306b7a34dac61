package format

import (
	"strings"
	"testing"
	"time"
)

func TestHumanizeBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{50 * 1024 * 1024, "50.0 MB"},
		{1536 * 1024 * 1024, "1.5 GB"},
		{1024 * 1024 * 1024 * 1024, "1.0 TB"},
		{2048 * 1024 * 1024 * 1024 * 1024, "2048.0 TB"},
	}

	for _, tt := range tests {
		if got := HumanizeBytes(tt.bytes); got != tt.want {
			t.Errorf("HumanizeBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{-time.Second, "0:00:00"},
		{754*time.Second + 900*time.Millisecond, "0:12:34"},
		{26 * time.Hour, "26:00:00"},
	}
	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"File", "Count"}, [][]string{{"a.mkv", "2"}, {"b.mkv"}}, []Align{AlignLeft, AlignRight})
	for _, want := range []string{"File", "Count", "a.mkv", "b.mkv", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if RenderTable(nil, nil, nil) != "" {
		t.Errorf("no headers should render nothing")
	}
}
