package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
)

// CountCues returns the number of cues in a text subtitle file, or -1
// when the file cannot be parsed.
func CountCues(path string) int {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt", ".ass", ".ssa", ".vtt":
	default:
		return -1
	}
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return -1
	}
	return len(subs.Items)
}

// ConvertSubtitle rewrites src into the format implied by dst's extension
// and returns the cue count.
func ConvertSubtitle(src, dst string) (int, error) {
	subs, err := astisub.OpenFile(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	if len(subs.Items) == 0 {
		return 0, fmt.Errorf("%s has no cues", filepath.Base(src))
	}
	if err := subs.Write(dst); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filepath.Base(dst), err)
	}
	return len(subs.Items), nil
}
