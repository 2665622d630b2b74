package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCheckDependencies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	dir := t.TempDir()
	tool := filepath.Join(dir, "fakeprobe")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("Failed to create fake tool: %v", err)
	}

	statuses := CheckDependencies([]Dependency{
		{Name: "probe", Binary: tool, Required: true},
		{Name: "missing", Binary: filepath.Join(dir, "nope")},
		{Name: "custom", Locate: func() (string, error) { return "/opt/custom", nil }},
		{Name: "custom-missing", Locate: func() (string, error) { return "", errors.New("not here") }},
	})

	expected := []bool{true, false, true, false}
	for i, s := range statuses {
		if s.Found() != expected[i] {
			t.Errorf("%s: Found() = %v, expected %v (err %v)", s.Name, s.Found(), expected[i], s.Err)
		}
	}
	if statuses[2].Path != "/opt/custom" {
		t.Errorf("Locate path = %q, expected /opt/custom", statuses[2].Path)
	}
}

func TestValidateDependencies(t *testing.T) {
	dir := t.TempDir()

	err := ValidateDependencies([]Dependency{
		{Name: "FFprobe", Binary: filepath.Join(dir, "ffprobe"), Required: true},
		{Name: "HandBrake", Binary: filepath.Join(dir, "HandBrakeCLI")},
	})
	if err == nil {
		t.Fatal("Expected validation to fail when a required tool is missing")
	}
	if !strings.Contains(err.Error(), "FFprobe not found") {
		t.Errorf("Error should name the missing tool, got: %v", err)
	}
	if strings.Contains(err.Error(), "HandBrake") {
		t.Errorf("Optional tools should not fail validation, got: %v", err)
	}

	err = ValidateDependencies([]Dependency{
		{Name: "optional", Binary: filepath.Join(dir, "nope")},
	})
	if err != nil {
		t.Errorf("Expected no error for missing optional tool, got: %v", err)
	}
}

func TestInstallationInstructions(t *testing.T) {
	tests := []struct {
		binary string
		want   []string // any of
	}{
		{"ffprobe", []string{"ffmpeg"}},
		{"ffmpeg", []string{"ffmpeg"}},
		{"avidemux3_cli", []string{"avidemux", "Avidemux"}},
		{"HandBrakeCLI", []string{"handbrake", "HandBrake"}},
		{"zenity", []string{"zenity"}},
	}

	for _, tt := range tests {
		t.Run(tt.binary, func(t *testing.T) {
			got := InstallationInstructions(tt.binary)
			if got == "" {
				t.Fatal("Installation instructions should not be empty")
			}
			found := false
			for _, w := range tt.want {
				if strings.Contains(got, w) {
					found = true
				}
			}
			if !found {
				t.Errorf("InstallationInstructions(%q) = %q, expected it to mention one of %v", tt.binary, got, tt.want)
			}
		})
	}
}

func TestIsNetworkPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"//server/share/videos", true},
		{`\\server\share`, true},
		{"/mnt/nas/videos", true},
		{"/Volumes/Footage", true},
		{"/home/user/smb-share", true},
		{"/home/user/videos", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if runtime.GOOS == "windows" {
				t.Skip("unix paths")
			}
			if got := IsNetworkPath(tt.path); got != tt.want {
				t.Errorf("IsNetworkPath(%q) = %v, expected %v", tt.path, got, tt.want)
			}
		})
	}
}
