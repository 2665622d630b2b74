package utils

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// PickerTimeout bounds how long a native directory dialog may stay open
const PickerTimeout = 30 * time.Second

// ErrPickerUnavailable means no native dialog could produce a directory;
// callers fall back to their own picker
var ErrPickerUnavailable = errors.New("native directory picker unavailable")

// OpenerCommand returns the file manager launcher for the current platform
func OpenerCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// DirectoryOpener opens directories in the desktop file manager
type DirectoryOpener struct {
	Command string // OpenerCommand() when empty
}

// Open launches the file manager on dir without waiting for it to exit
func (o DirectoryOpener) Open(dir string) error {
	bin := o.Command
	if bin == "" {
		bin = OpenerCommand()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	cmd := exec.Command(bin, abs)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", bin, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenDirectory opens dir with the platform default file manager
func OpenDirectory(dir string) error {
	return DirectoryOpener{}.Open(dir)
}

// pickerCommands are tried in order
var pickerCommands = [][]string{
	{"zenity", "--file-selection", "--directory", "--title"},
	{"kdialog", "--getexistingdirectory", ".", "--title"},
}

// PickDirectory asks the user for a directory with a native dialog
func PickDirectory(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, PickerTimeout)
	defer cancel()

	for _, c := range pickerCommands {
		if _, err := exec.LookPath(c[0]); err != nil {
			continue
		}
		args := append(append([]string{}, c[1:]...), title)
		out, err := exec.CommandContext(ctx, c[0], args...).Output()
		if err != nil {
			// cancelled dialog or timeout
			continue
		}
		if dir := strings.TrimSpace(string(out)); dir != "" {
			return dir, nil
		}
	}
	return "", ErrPickerUnavailable
}
