package convert

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// waitDelay bounds how long Wait keeps reading after the tool exits,
// for AppImage children that hold the output pipe open
const waitDelay = 5 * time.Second

// prepareDestination makes sure the output directory exists and removes a
// stale file at dst, so a tool that writes nothing is not mistaken for success
func prepareDestination(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing %s: %w", filepath.Base(dst), err)
	}
	return nil
}

// streamCommand runs cmd with stdout and stderr merged and hands every
// non-empty output line to logLine as it arrives
func streamCommand(cmd *exec.Cmd, prefix string, logLine func(string)) error {
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = waitDelay
	}

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		scanner.Split(scanLinesOrCR)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && logLine != nil {
				logLine(prefix + line)
			}
		}
		// keep draining so the tool never blocks on a full pipe
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	_ = pw.Close()
	<-done
	return err
}

// scanLinesOrCR splits on \n or \r; progress meters redraw with bare \r
func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// classifyResult turns the exit status and the output file into the adapter verdict
func classifyResult(runErr error, dst string) error {
	if runErr != nil {
		return fmt.Errorf("%w: %w", ErrToolFailed, runErr)
	}
	fi, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOutputMissing, filepath.Base(dst))
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrOutputEmpty, filepath.Base(dst))
	}
	return nil
}

// commandLine renders a command for the log
func commandLine(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{bin}, args...) {
		if strings.ContainsAny(a, " \t") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
