package extractor

import (
	"strconv"
	"strings"
	"time"

	"subextract/internal/progress"
	"subextract/internal/util/format"
)

// ProgressState accumulates ffmpeg -progress key=value lines between
// "progress=" markers.
type ProgressState struct {
	OutTimeUs int64 // out_time_ms is reported in microseconds
	SpeedStr  string
	TotalSize int64
}

// UpdateFromLine folds one line into the state and returns an update when
// a progress marker completes a block.
func (ps *ProgressState) UpdateFromLine(line, file, label string) (u progress.Update, ok bool) {
	kv := strings.SplitN(line, "=", 2)
	if len(kv) != 2 {
		return progress.Update{}, false
	}

	key := strings.TrimSpace(kv[0])
	val := strings.TrimSpace(kv[1])

	switch key {
	case "out_time_ms", "out_time_us":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil && v >= 0 {
			ps.OutTimeUs = v
		}
	case "speed":
		ps.SpeedStr = val
	case "total_size":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.TotalSize = v
		}
	case "progress":
		mt := time.Duration(ps.OutTimeUs) * time.Microsecond
		msg := label + " " + format.Clock(mt)
		if ps.SpeedStr != "" && ps.SpeedStr != "N/A" {
			msg += " (" + ps.SpeedStr + ")"
		}
		return progress.Update{
			Stage:     progress.StageExtracting,
			Percent:   -1,
			File:      file,
			MediaTime: &mt,
			Message:   msg,
		}, true
	}
	return progress.Update{}, false
}
