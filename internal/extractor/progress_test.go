package extractor

import (
	"strings"
	"testing"
	"time"

	"subextract/internal/progress"
)

func TestProgressState_UpdateFromLine(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantOk        bool
		wantMediaTime time.Duration
		wantMessage   string
	}{
		{
			name: "progress block",
			lines: []string{
				"out_time_ms=754000000",
				"speed=312x",
				"total_size=10485",
				"progress=continue",
			},
			wantOk:        true,
			wantMediaTime: 754 * time.Second,
			wantMessage:   "Extracting eng #2 0:12:34 (312x)",
		},
		{
			name:          "end marker without speed",
			lines:         []string{"out_time_us=3600000000", "speed=N/A", "progress=end"},
			wantOk:        true,
			wantMediaTime: time.Hour,
			wantMessage:   "Extracting eng #2 1:00:00",
		},
		{
			name:   "non-progress line",
			lines:  []string{"frame=100"},
			wantOk: false,
		},
		{
			name:   "not key value",
			lines:  []string{"garbage"},
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &ProgressState{}
			var u progress.Update
			var ok bool
			for _, line := range tt.lines {
				u, ok = ps.UpdateFromLine(line, "movie.mkv", "Extracting eng #2")
			}
			if ok != tt.wantOk {
				t.Fatalf("UpdateFromLine() ok = %v, want %v", ok, tt.wantOk)
			}
			if !tt.wantOk {
				return
			}
			if u.Stage != progress.StageExtracting {
				t.Errorf("Stage = %v, want %v", u.Stage, progress.StageExtracting)
			}
			if u.Percent >= 0 {
				t.Errorf("Percent = %v, want negative (keep run fraction)", u.Percent)
			}
			if u.File != "movie.mkv" {
				t.Errorf("File = %q", u.File)
			}
			if u.MediaTime == nil || *u.MediaTime != tt.wantMediaTime {
				t.Errorf("MediaTime = %v, want %v", u.MediaTime, tt.wantMediaTime)
			}
			if !strings.EqualFold(u.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want %q", u.Message, tt.wantMessage)
			}
		})
	}
}

func TestProgressState_StateTracking(t *testing.T) {
	ps := &ProgressState{}

	ps.UpdateFromLine("out_time_ms=15000000", "f", "l")
	if ps.OutTimeUs != 15000000 {
		t.Errorf("OutTimeUs = %v, want 15000000", ps.OutTimeUs)
	}
	ps.UpdateFromLine("out_time_ms=-9223372036854775807", "f", "l")
	if ps.OutTimeUs != 15000000 {
		t.Errorf("negative out_time should be ignored, got %v", ps.OutTimeUs)
	}
	ps.UpdateFromLine("speed=1.2x", "f", "l")
	if ps.SpeedStr != "1.2x" {
		t.Errorf("SpeedStr = %v, want '1.2x'", ps.SpeedStr)
	}
	ps.UpdateFromLine("total_size=1048576", "f", "l")
	if ps.TotalSize != 1048576 {
		t.Errorf("TotalSize = %v, want 1048576", ps.TotalSize)
	}
}
