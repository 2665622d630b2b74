package video

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Scanner discovers video files below a directory and probes their duration
type Scanner struct {
	Prober DurationProber
	Log    *logrus.Entry
}

// NewScanner creates a scanner using the given prober
func NewScanner(prober DurationProber, log *logrus.Entry) *Scanner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scanner{Prober: prober, Log: log.WithField("component", "scanner")}
}

// Scan walks directory recursively and returns one VideoFile per matching file,
// in discovery order. Probe failures are recorded as an unknown duration.
func (s *Scanner) Scan(ctx context.Context, directory string) ([]VideoFile, error) {
	paths, err := FindVideoFilesRecursively(directory, s.Log)
	if err != nil {
		return nil, err
	}

	files := make([]VideoFile, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fi, err := os.Stat(path)
		if err != nil {
			s.Log.WithError(err).Warnf("Error processing %s", filepath.Base(path))
			continue
		}

		vf := VideoFile{
			Path:   path,
			Name:   filepath.Base(path),
			Size:   fi.Size(),
			Status: StatusReady,
		}

		if s.Prober != nil {
			secs, err := s.Prober.Duration(ctx, path)
			if err != nil {
				s.Log.WithError(err).Debugf("duration unknown for %s", vf.Name)
			} else {
				vf.Duration = secs
				vf.DurationKnown = true
			}
		}

		files = append(files, vf)
	}

	s.Log.Infof("Found %d video files in %s", len(files), directory)
	return files, nil
}

// CheckInputDirectory validates the directory a scan is about to walk
func CheckInputDirectory(directory string) error {
	if directory == "" {
		return ErrNoInputDirectory
	}
	fi, err := os.Stat(directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputDirectoryMissing, directory)
		}
		return fmt.Errorf("cannot access %s: %w", directory, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInputDirectoryMissing, directory)
	}
	return nil
}

// FindVideoFilesRecursively scans a directory for video files.
// Unreadable sub-directories are logged and skipped.
func FindVideoFilesRecursively(directory string, log *logrus.Entry) ([]string, error) {
	if err := CheckInputDirectory(directory); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", directory, err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if log != nil {
				log.WithError(err).Warnf("skipping %s", path)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if IsVideoFile(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}
