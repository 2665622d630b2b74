package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Dependency is an external program the application drives
type Dependency struct {
	Name     string // display name
	Binary   string // looked up in PATH unless Locate is set
	Purpose  string
	Required bool
	Locate   func() (string, error)
}

// DependencyStatus is the result of looking for one Dependency
type DependencyStatus struct {
	Dependency
	Path string
	Err  error
}

// Found reports whether the dependency was located
func (s DependencyStatus) Found() bool {
	return s.Err == nil && s.Path != ""
}

// CheckDependencies locates every dependency, in order
func CheckDependencies(deps []Dependency) []DependencyStatus {
	statuses := make([]DependencyStatus, len(deps))
	for i, dep := range deps {
		statuses[i] = DependencyStatus{Dependency: dep}
		if dep.Locate != nil {
			statuses[i].Path, statuses[i].Err = dep.Locate()
			continue
		}
		statuses[i].Path, statuses[i].Err = exec.LookPath(dep.Binary)
	}
	return statuses
}

// ValidateDependencies fails when a required dependency is missing.
// The error carries installation instructions for every missing tool.
func ValidateDependencies(deps []Dependency) error {
	var missing []string
	for _, s := range CheckDependencies(deps) {
		if s.Required && !s.Found() {
			missing = append(missing, fmt.Sprintf("%s not found. %s", s.Name, InstallationInstructions(s.Binary)))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing dependencies:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}

// InstallationInstructions returns platform-specific installation instructions for a tool
func InstallationInstructions(binary string) string {
	name := strings.ToLower(binary)
	switch {
	case strings.Contains(name, "ffmpeg"), strings.Contains(name, "ffprobe"):
		return installFFmpeg()
	case strings.Contains(name, "avidemux"):
		switch runtime.GOOS {
		case "linux":
			return "Install with: apt-get install avidemux-cli, or place avidemux_2.8.1.appImage next to the binary"
		case "darwin":
			return "Install with: brew install --cask avidemux"
		default:
			return "Download from https://avidemux.sourceforge.net/download.html"
		}
	case strings.Contains(name, "handbrake"):
		switch runtime.GOOS {
		case "linux":
			return "Install with: apt-get install handbrake-cli (Ubuntu/Debian) or flatpak install fr.handbrake.ghb"
		case "darwin":
			return "Install with: brew install handbrake"
		default:
			return "Download HandBrakeCLI from https://handbrake.fr/downloads2.php and add to PATH"
		}
	default:
		return "Install " + binary + " and add it to PATH"
	}
}

func installFFmpeg() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}
