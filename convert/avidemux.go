package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Avidemux converts to the intermediate MOV profile with Avidemux in headless mode
type Avidemux struct {
	// Path overrides the search when set
	Path string
	// Candidates are checked in order when Path is empty
	Candidates []string
	Log        *logrus.Entry
}

// NewAvidemux creates the adapter with the default search locations
func NewAvidemux(path string, log *logrus.Entry) *Avidemux {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Avidemux{
		Path:       path,
		Candidates: DefaultAvidemuxCandidates(),
		Log:        log.WithField("component", "avidemux"),
	}
}

// DefaultAvidemuxCandidates lists AppImage locations relative to the running
// binary and the working directory, then the system CLI builds
func DefaultAvidemuxCandidates() []string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		appDir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(appDir, "..", "..", "tools", "avidemux.appImage"), // AppImage layout, from usr/bin
			filepath.Join(appDir, "..", "tools", "avidemux.appImage"),       // AppImage layout, from usr
			filepath.Join(appDir, "tools", "avidemux.appImage"),
			filepath.Join(appDir, "avidemux_2.8.1.appImage"),
		)
	}
	return append(candidates,
		"./avidemux_2.8.1.appImage",
		"/usr/bin/avidemux3_cli",
		"/usr/bin/avidemux_cli",
	)
}

// Locate finds the Avidemux binary
func (a *Avidemux) Locate() (string, error) {
	if a.Path != "" {
		if isFile(a.Path) {
			return a.Path, nil
		}
		if p, err := exec.LookPath(a.Path); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: avidemux %s", ErrToolNotFound, a.Path)
	}

	for _, c := range a.Candidates {
		if isFile(c) {
			// exec treats a bare name as a PATH lookup
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, c, err)
			}
			return abs, nil
		}
	}
	for _, name := range []string{"avidemux3_cli", "avidemux_cli"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: could not find Avidemux AppImage or CLI", ErrToolNotFound)
}

// AvidemuxArgs builds the headless Avidemux invocation: Xvid4 video, Lame audio, MOV container
func AvidemuxArgs(src, dst string) []string {
	return []string{
		"--nogui",
		"--load", src,
		"--video-codec", "xvid4",
		"--audio-codec", "Lame",
		"--output-format", "MOV",
		"--save", dst,
		"--quit",
	}
}

// Convert implements Adapter. Cancelling ctx terminates the Avidemux process.
func (a *Avidemux) Convert(ctx context.Context, src, dst string, logLine func(string)) error {
	bin, err := a.Locate()
	if err != nil {
		logLine("❌ Error: Could not find Avidemux AppImage or CLI")
		logLine(fmt.Sprintf("Tried paths: %v", a.Candidates))
		return err
	}
	a.logger().WithField("path", bin).Debug("found avidemux")

	if err := prepareDestination(dst); err != nil {
		return err
	}

	args := AvidemuxArgs(src, dst)
	logLine("Avidemux command: " + commandLine(bin, args))

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	runErr := streamCommand(cmd, "Avidemux: ", logLine)
	return avidemuxVerdict(ctx, runErr, dst)
}

// avidemuxVerdict reports a cancellation only when it actually cut the
// process short; a clean exit with valid output stays a success
func avidemuxVerdict(ctx context.Context, runErr error, dst string) error {
	if runErr != nil && ctx.Err() != nil {
		return fmt.Errorf("avidemux terminated: %w", ctx.Err())
	}
	return classifyResult(runErr, dst)
}

func (a *Avidemux) logger() *logrus.Entry {
	if a.Log != nil {
		return a.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
