package video

import (
	"path/filepath"
	"slices"
	"strings"
)

// VideoExtensions lists the input extensions picked up by a scan
var VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm", ".m4v"}

// IsVideoFile checks if the given file extension is one of known video file extensions
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path)) // handle cases where extension is upper case
	return slices.Contains(VideoExtensions, ext)
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
