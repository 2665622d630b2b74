package cmd

import (
	"context"
	"path/filepath"

	"github.com/lepinkainen/resolveconv/config"
	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/utils"
	"github.com/lepinkainen/resolveconv/video"
)

// NewScanner builds a directory scanner using the configured ffprobe
func NewScanner(appCtx *types.AppContext) *video.Scanner {
	cfg := appCtx.ConfigOrDefault()
	prober := video.FFProbe{Path: cfg.Tools.FFprobe, Timeout: cfg.Tools.ProbeTimeout.Duration}
	return video.NewScanner(prober, appCtx.Logger("scanner"))
}

// NewOrchestrator builds the conversion orchestrator and its tool adapters.
// Cancelling abort kills a HandBrake file in progress.
func NewOrchestrator(appCtx *types.AppContext, openOutput bool, abort context.Context) *convert.Orchestrator {
	cfg := appCtx.ConfigOrDefault()
	handbrake := convert.NewHandBrake(cfg.Tools.HandBrake, appCtx.Logger("adapter"))
	handbrake.Abort = abort
	o := &convert.Orchestrator{
		Avidemux:  convert.NewAvidemux(cfg.Tools.Avidemux, appCtx.Logger("adapter")),
		HandBrake: handbrake,
		Log:       appCtx.Logger("orchestrator"),
	}
	if openOutput {
		o.OpenDir = utils.DirectoryOpener{Command: cfg.Tools.Opener}.Open
	}
	return o
}

// ToolDependencies lists the external programs with their configured locations
func ToolDependencies(cfg *config.Config) []utils.Dependency {
	ffprobe := orDefault(cfg.Tools.FFprobe, "ffprobe")
	ffmpeg := orDefault(cfg.Tools.FFmpeg, "ffmpeg")
	handbrake := orDefault(cfg.Tools.HandBrake, "HandBrakeCLI")

	return []utils.Dependency{
		{Name: "FFprobe", Binary: ffprobe, Purpose: "video durations", Required: true},
		{
			Name:    "Avidemux",
			Binary:  "avidemux",
			Purpose: "DaVinci Resolve (MOV) conversion",
			Locate:  convert.NewAvidemux(cfg.Tools.Avidemux, nil).Locate,
		},
		{Name: "HandBrake", Binary: handbrake, Purpose: "H.264 (MP4) conversion"},
		{Name: "FFmpeg", Binary: ffmpeg, Purpose: "verify command frame extraction"},
		{Name: "File manager", Binary: orDefault(cfg.Tools.Opener, utils.OpenerCommand()), Purpose: "opening the output folder"},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// matchesFilters applies --include and --exclude globs to a file name
func matchesFilters(path string, include, exclude []string) bool {
	name := filepath.Base(path)
	if len(include) > 0 {
		matched := false
		for _, pattern := range include {
			if ok, _ := filepath.Match(pattern, name); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, pattern := range exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}
	return true
}
