package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/ui"
	"github.com/lepinkainen/resolveconv/video"
)

// VerifyCmd compares converted files with their sources by perceptual hash
// of a sample frame. A large distance points at a broken conversion.
type VerifyCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory holding the source videos" type:"existingdir"`
	Output    string `short:"o" help:"Directory holding the converted videos (defaults.output_dir from config)" type:"path"`
	Format    string `short:"f" help:"Format the videos were converted to: resolve or h264"`
	Threshold int    `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
	Workers   int    `help:"Number of parallel frame extractions" default:"0"`

	out io.Writer
}

// frameHasher is satisfied by video.FrameHasher
type frameHasher interface {
	Hash(ctx context.Context, file string) (*goimagehash.ImageHash, error)
}

type verifyPair struct {
	Source    string
	Converted string
	Distance  int
	Err       error
}

func (cmd *VerifyCmd) Run(appCtx *types.AppContext) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	cfg := appCtx.ConfigOrDefault()

	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("threshold must be between 0 and 64, got %d", cmd.Threshold)
	}

	profile, err := convert.LookupProfile(orDefault(cmd.Format, cfg.Defaults.Format))
	if err != nil {
		return err
	}
	output := orDefault(cmd.Output, cfg.Defaults.OutputDir)
	if output == "" {
		return convert.ErrNoOutputDirectory
	}

	sources, err := video.FindVideoFilesRecursively(cmd.Directory, appCtx.Logger("verify"))
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cmd.Directory, err)
	}

	var pairs []verifyPair
	for _, src := range sources {
		dst := convert.DestinationPath(output, src, profile)
		if _, err := os.Stat(dst); err != nil {
			fmt.Fprintf(out, "⚠️  %s has no converted counterpart, skipping\n", video.Stem(src))
			continue
		}
		pairs = append(pairs, verifyPair{Source: src, Converted: dst})
	}

	fmt.Fprintf(out, "%s\n", ui.InfoStyle.Render(fmt.Sprintf("Comparing %d converted files (threshold: %d)...", len(pairs), cmd.Threshold)))

	hasher := video.FrameHasher{FFmpeg: cfg.Tools.FFmpeg}
	if err := comparePairs(context.Background(), hasher, pairs, cmd.Workers); err != nil {
		return err
	}

	var verified, failed int
	for _, p := range pairs {
		switch {
		case p.Err != nil:
			fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", p.Converted, p.Err)))
			failed++
		case p.Distance <= cmd.Threshold:
			fmt.Fprintf(out, "%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s (distance %d)", p.Converted, p.Distance)))
			verified++
		default:
			fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s differs from its source (distance %d)", p.Converted, p.Distance)))
			failed++
		}
	}

	fmt.Fprintf(out, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Verified: %d, ❌ Failed: %d", verified, failed)))
	if failed > 0 {
		return fmt.Errorf("%d of %d converted files failed verification", failed, len(pairs))
	}
	return nil
}

// comparePairs fills in Distance or Err for every pair
func comparePairs(ctx context.Context, hasher frameHasher, pairs []verifyPair, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range pairs {
		p := &pairs[i]
		g.Go(func() error {
			srcHash, err := hasher.Hash(gctx, p.Source)
			if err != nil {
				p.Err = fmt.Errorf("source: %w", err)
				return nil
			}
			dstHash, err := hasher.Hash(gctx, p.Converted)
			if err != nil {
				p.Err = fmt.Errorf("converted: %w", err)
				return nil
			}
			p.Distance, p.Err = srcHash.Distance(dstHash)
			return nil
		})
	}
	return g.Wait()
}
