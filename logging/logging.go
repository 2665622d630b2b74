// Package logging configures the diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to out at the given level
func New(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return "", fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})
	// file:line only helps when debugging
	log.SetReportCaller(lvl >= logrus.DebugLevel)
	return log, nil
}

// DefaultFile is where the terminal UI writes its log
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "resolveconv", "resolveconv.log")
}

// NewFile creates a logger appending to file. The returned closer must be
// called on exit.
func NewFile(level, file string) (*logrus.Logger, io.Closer, error) {
	if file == "" {
		file = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log, err := New(level, f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return log, f, nil
}

// Component returns an entry tagged with the component name
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
