package convert

import (
	"os"
	"path/filepath"

	"github.com/lepinkainen/resolveconv/video"
)

// Conflict pairs a source file with a destination that already exists
type Conflict struct {
	Source      string
	Destination string
}

// Conflicts are listed in the order of the source files
type Conflicts []Conflict

// Map returns the conflicts keyed by source path
func (c Conflicts) Map() map[string]string {
	m := make(map[string]string, len(c))
	for _, conflict := range c {
		m[conflict.Source] = conflict.Destination
	}
	return m
}

// DestinationPath is the file a conversion of src would produce in outputDir
func DestinationPath(outputDir, src string, profile Profile) string {
	return filepath.Join(outputDir, video.Stem(src)+profile.Extension)
}

// DetectConflicts reports every selected file whose destination already exists.
// The check is advisory: files created after it runs are not detected.
func DetectConflicts(files []video.VideoFile, outputDir string, profile Profile) Conflicts {
	if outputDir == "" {
		return nil
	}

	var conflicts Conflicts
	for _, f := range files {
		if !f.Selected {
			continue
		}
		dst := DestinationPath(outputDir, f.Path, profile)
		if exists(dst) {
			conflicts = append(conflicts, Conflict{Source: f.Path, Destination: dst})
		}
	}
	return conflicts
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// sameFile reports whether a and b name the same existing file
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
