package convert

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// HandBrakePreset is the preset used for the universal H.264 profile
const HandBrakePreset = "Fast 1080p30"

// HandBrake converts to the universal H.264 MP4 profile with HandBrakeCLI
type HandBrake struct {
	Path string // "HandBrakeCLI" from PATH when empty
	// Abort kills a running HandBrakeCLI when done. It is separate from the
	// run's stop token, which never interrupts a file.
	Abort context.Context
	Log   *logrus.Entry
}

// NewHandBrake creates the adapter
func NewHandBrake(path string, log *logrus.Entry) *HandBrake {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &HandBrake{Path: path, Log: log.WithField("component", "handbrake")}
}

// Locate resolves the HandBrakeCLI binary
func (h *HandBrake) Locate() (string, error) {
	bin := h.Path
	if bin == "" {
		bin = "HandBrakeCLI"
	}
	p, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, bin)
	}
	return p, nil
}

// HandBrakeArgs builds the HandBrakeCLI invocation
func HandBrakeArgs(src, dst string) []string {
	return []string{"-i", src, "-o", dst, "--preset", HandBrakePreset}
}

// Convert implements Adapter. The HandBrake process is not interrupted by
// cancellation; a stop request takes effect before the next file. Only
// Abort ends it early.
func (h *HandBrake) Convert(_ context.Context, src, dst string, logLine func(string)) error {
	bin, err := h.Locate()
	if err != nil {
		logLine(fmt.Sprintf("❌ HandBrake error: %v", err))
		return err
	}

	if err := prepareDestination(dst); err != nil {
		return err
	}

	args := HandBrakeArgs(src, dst)
	logLine("[HandBrake] $ " + commandLine(bin, args))
	if h.Log != nil {
		h.Log.WithField("src", src).Debug("starting HandBrakeCLI")
	}

	abort := h.Abort
	if abort == nil {
		abort = context.Background()
	}
	runErr := streamCommand(exec.CommandContext(abort, bin, args...), "", logLine)
	return classifyResult(runErr, dst)
}
