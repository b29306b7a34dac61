// Package format renders sizes, durations and tables for humans.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// HumanizeBytes converts a byte count into a string such as "1.5 MB".
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + [...]string{"KB", "MB", "GB", "TB"}[exp]
}

// Clock renders d as H:MM:SS, truncated to whole seconds.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
