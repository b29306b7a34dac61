package deps

import (
	"fmt"
	"os"
	"os/exec"
)

// FindTool resolves a binary. A non-empty custom value is tried as a path
// first, then looked up in PATH; otherwise fallback is looked up in PATH.
func FindTool(custom, fallback string) (string, error) {
	if custom != "" {
		if fi, err := os.Stat(custom); err == nil && !fi.IsDir() {
			return custom, nil
		}
		if p, err := exec.LookPath(custom); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find %s at %q", fallback, custom)
	}
	if p, err := exec.LookPath(fallback); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find %s in PATH. Please install %s.", fallback, fallback)
}

// FindFFmpeg returns the path to the ffmpeg binary.
func FindFFmpeg(custom string) (string, error) {
	return FindTool(custom, "ffmpeg")
}

// FindFFprobe returns the path to the ffprobe binary.
func FindFFprobe(custom string) (string, error) {
	return FindTool(custom, "ffprobe")
}
