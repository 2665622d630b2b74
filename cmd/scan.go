package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/ui"
	"github.com/lepinkainen/resolveconv/utils"
	"github.com/lepinkainen/resolveconv/video"
)

// ScanCmd lists the videos a conversion of Directory would pick up
type ScanCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory to scan for videos" type:"existingdir" default:"."`

	out io.Writer
}

func (cmd *ScanCmd) Run(appCtx *types.AppContext) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "Scanning %s for videos...\n", cmd.Directory)
	if utils.IsNetworkPath(cmd.Directory) {
		fmt.Fprintln(out, "⚠️  Network drive detected, probing durations may be slow")
	}

	files, err := NewScanner(appCtx).Scan(context.Background(), cmd.Directory)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cmd.Directory, err)
	}

	if len(files) == 0 {
		fmt.Fprintln(out, ui.InfoStyle.Render("No video files found"))
		return nil
	}

	fmt.Fprint(out, renderScanTable(files))
	fmt.Fprintf(out, "\n%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ Found %d video files (%s)", len(files), humanize.Bytes(uint64(totalSize(files))))))
	return nil
}

func renderScanTable(files []video.VideoFile) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Path
	}
	display := ui.OptimizePaths(names)

	width := len("File")
	for _, d := range display {
		width = max(width, len(d))
	}

	s := fmt.Sprintf("%-*s  %10s  %8s\n", width, "File", "Size", "Duration")
	for i, f := range files {
		s += fmt.Sprintf("%-*s  %10s  %8s\n", width, display[i], f.SizeLabel(), f.DurationLabel())
	}
	return s
}

func totalSize(files []video.VideoFile) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}
