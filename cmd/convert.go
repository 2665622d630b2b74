package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/resolveconv/config"
	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/selection"
	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/ui"
	"github.com/lepinkainen/resolveconv/utils"
)

// ErrRunIncomplete is returned when not every selected file was converted
var ErrRunIncomplete = errors.New("conversion incomplete")

// errCancelled means the user declined the conflict prompt
var errCancelled = errors.New("conversion cancelled")

// ConvertCmd scans a directory and converts the matching videos in one batch
type ConvertCmd struct {
	Directory  string   `arg:"" name:"directory" help:"Directory to scan for videos" type:"existingdir"`
	Output     string   `short:"o" help:"Output directory (defaults.output_dir from config)" type:"path"`
	Format     string   `short:"f" help:"Output format: resolve or h264 (defaults.format from config)"`
	OnConflict string   `name:"on-conflict" help:"When an output file exists: ask, overwrite, skip, suffix or timestamp"`
	Include    []string `help:"Only convert files whose name matches this glob (repeatable)"`
	Exclude    []string `help:"Skip files whose name matches this glob (repeatable)"`
	NoOpen     bool     `name:"no-open" help:"Do not open the output directory after the first success"`

	// in and out are the prompt streams, stdin and stdout when nil
	in  io.Reader
	out io.Writer
}

func (cmd *ConvertCmd) stdout() io.Writer {
	if cmd.out != nil {
		return cmd.out
	}
	return os.Stdout
}

func (cmd *ConvertCmd) stdin() io.Reader {
	if cmd.in != nil {
		return cmd.in
	}
	return os.Stdin
}

// Run executes the batch conversion
func (cmd *ConvertCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()
	log := appCtx.Logger("convert")
	out := cmd.stdout()

	profile, err := convert.LookupProfile(orDefault(cmd.Format, cfg.Defaults.Format))
	if err != nil {
		return err
	}
	onConflict := orDefault(cmd.OnConflict, cfg.Defaults.OnConflict)
	if onConflict != config.OnConflictAsk {
		if _, err := convert.ParsePolicy(onConflict); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("resolveconv %s", appCtx.VersionOrDefault())))
	if utils.IsNetworkPath(cmd.Directory) {
		fmt.Fprintln(out, "⚠️  Network drive detected, probing durations may be slow")
	}

	files, err := NewScanner(appCtx).Scan(ctx, cmd.Directory)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", cmd.Directory, err)
	}
	fmt.Fprintln(out, ui.InfoStyle.Render(fmt.Sprintf("Found %d video files", len(files))))

	state := selection.New(cmd.Directory, orDefault(cmd.Output, cfg.Defaults.OutputDir), profile)
	if state, err = state.Apply(selection.Load{Files: files}); err != nil {
		return err
	}
	for i, f := range files {
		if matchesFilters(f.Path, cmd.Include, cmd.Exclude) {
			if state, err = state.Apply(selection.Toggle{Index: i}); err != nil {
				return err
			}
		}
	}

	req, err := state.BuildRequest(convert.PolicyOverwrite)
	if err != nil {
		return err
	}

	if conflicts := req.Conflicts(); len(conflicts) > 0 {
		policy, err := cmd.resolvePolicy(onConflict, conflicts)
		if errors.Is(err, errCancelled) {
			fmt.Fprintln(out, "Conversion cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		req = req.WithPolicy(policy)
	}

	log.WithField("run", req.RunID.String()).Infof("converting %d files to %s", len(req.Files), profile.Name)
	fmt.Fprintln(out, ui.ProcessingStyle.Render(fmt.Sprintf("🎬 Converting %d files to %s", len(req.Files), profile.Name)))

	result, err := cmd.runWithProgress(ctx, NewOrchestrator(appCtx, cfg.ShouldOpenOutput() && !cmd.NoOpen, context.Background()), req)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case convert.OutcomeAllConverted:
		fmt.Fprintf(out, "\n%s\n", ui.SuccessStyle.Render("✅ "+result.Summary()))
		return nil
	case convert.OutcomeStopped:
		fmt.Fprintf(out, "\n%s\n", ui.InfoStyle.Render("⏹️  "+result.Summary()))
	default:
		fmt.Fprintf(out, "\n%s\n", ui.ErrorStyle.Render("⚠️  "+result.Summary()))
	}
	return fmt.Errorf("%w: %d/%d converted", ErrRunIncomplete, result.Converted, result.Total)
}

// runWithProgress runs the worker and renders its events until the run ends
func (cmd *ConvertCmd) runWithProgress(ctx context.Context, o *convert.Orchestrator, req convert.Request) (convert.Result, error) {
	out := cmd.stdout()
	bar := progressbar.NewOptions(len(req.Files),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	var result convert.Result
	var runErr error
	for ev := range o.Start(ctx, req) {
		switch ev.Kind {
		case convert.EventLog:
			_ = bar.Clear()
			fmt.Fprintln(out, convert.FormatLogLine(ev.Time, ev.Line))
			_ = bar.RenderBlank()
		case convert.EventProgress:
			_ = bar.Set(ev.Done)
		case convert.EventFileStatus:
			bar.Describe(fmt.Sprintf("%s: %s", ev.File.Status, ev.File.Name))
		case convert.EventDone:
			_ = bar.Finish()
			result, runErr = ev.Result, ev.Err
		}
	}
	return result, runErr
}

// resolvePolicy returns the configured policy or asks the user
func (cmd *ConvertCmd) resolvePolicy(onConflict string, conflicts convert.Conflicts) (convert.Policy, error) {
	if onConflict != config.OnConflictAsk {
		return convert.ParsePolicy(onConflict)
	}
	return promptPolicy(cmd.stdin(), cmd.stdout(), conflicts)
}

// promptPolicy lists the conflicts and reads the user's choice
func promptPolicy(in io.Reader, out io.Writer, conflicts convert.Conflicts) (convert.Policy, error) {
	fmt.Fprintf(out, "\n%s\n", ui.ErrorStyle.Render(fmt.Sprintf("⚠️  %d file(s) already exist in the output directory:", len(conflicts))))
	fmt.Fprint(out, ui.RenderConflictList(conflicts, 10))

	policies := convert.Policies()
	fmt.Fprintln(out, "\nHow do you want to handle existing files?")
	for i, p := range policies {
		fmt.Fprintf(out, "  %d) %s\n", i+1, p.Description())
	}
	fmt.Fprintln(out, "  c) Cancel conversion")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Choice: ")
		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))

		switch {
		case answer == "c" || answer == "cancel":
			return "", errCancelled
		case answer != "":
			if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(policies) {
				return policies[n-1], nil
			}
			if p, parseErr := convert.ParsePolicy(answer); parseErr == nil {
				return p, nil
			}
			fmt.Fprintf(out, "Unknown choice %q\n", answer)
		}

		if err != nil {
			// EOF without an answer
			return "", errCancelled
		}
	}
}
