// Package library discovers media files and their existing subtitle siblings.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"subextract/internal/model"
	"subextract/internal/streams"
)

// MovieExtensions are the file extensions picked up when scanning directories.
var MovieExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv"}

// IsMovie reports whether path has one of MovieExtensions.
func IsMovie(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range MovieExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Scan expands paths into media files. Directories are walked recursively
// for movie extensions; files named explicitly are kept as given.
// Duplicates are dropped and first-seen order is kept.
func Scan(paths []string, log zerolog.Logger) ([]model.MediaFile, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input paths")
	}
	var out []model.MediaFile
	seen := map[string]struct{}{}
	add := func(p string) error {
		f, err := model.NewMediaFile(p)
		if err != nil {
			return err
		}
		if _, dup := seen[f.Path]; dup {
			return nil
		}
		seen[f.Path] = struct{}{}
		out = append(out, f)
		return nil
	}

	for _, root := range paths {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", root, err)
		}
		if !fi.IsDir() {
			if !IsMovie(root) {
				log.Warn().Str("file", filepath.Base(root)).Msg("unrecognized extension, probing anyway")
			}
			if err := add(root); err != nil {
				return nil, err
			}
			continue
		}
		walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("skipping unreadable path")
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsMovie(p) {
				return nil
			}
			return add(p)
		})
		if walkErr != nil {
			return nil, fmt.Errorf("scan %q: %w", root, walkErr)
		}
	}
	return out, nil
}

// HasExistingSubtitles reports whether a sibling of f starts with f's stem
// and has a known subtitle extension. Read errors are returned so the
// caller can decide to fail open.
func HasExistingSubtitles(f model.MediaFile) (bool, error) {
	entries, err := os.ReadDir(f.Dir())
	if err != nil {
		return false, err
	}
	stem := f.Stem()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, stem) && streams.IsSubtitleExtension(filepath.Ext(name)) {
			return true, nil
		}
	}
	return false, nil
}
