package video

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// UnknownDuration is shown when the probe could not determine a duration
const UnknownDuration = "Unknown"

// DefaultProbeTimeout bounds a single ffprobe invocation
const DefaultProbeTimeout = 10 * time.Second

// DurationProber returns the duration of a media file in seconds
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe runs ffprobe to read the container duration
type FFProbe struct {
	Path    string        // ffprobe binary, "ffprobe" when empty
	Timeout time.Duration // DefaultProbeTimeout when zero
}

// ProbeArgs returns the ffprobe arguments used to read the duration of videoFile
func ProbeArgs(videoFile string) []string {
	return []string{"-v", "quiet", "-show_entries", "format=duration", "-of", "csv=p=0", videoFile}
}

// Duration implements DurationProber
func (p FFProbe) Duration(ctx context.Context, videoFile string) (float64, error) {
	bin := p.Path
	if bin == "" {
		bin = "ffprobe"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, bin, ProbeArgs(videoFile)...).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	return ParseDuration(string(output))
}

// ParseDuration parses the single float printed by ffprobe
func ParseDuration(output string) (float64, error) {
	// Some containers print the duration once per program
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	secs, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse duration %q: %w", ErrProbeFailed, line, err)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%w: invalid duration %q", ErrProbeFailed, line)
	}
	return secs, nil
}

// FormatDuration renders seconds as M:SS
func FormatDuration(secs float64) string {
	total := int(secs)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
