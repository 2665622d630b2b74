package cmd

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/ui"
	"github.com/lepinkainen/resolveconv/utils"
)

// UICmd starts the interactive converter
type UICmd struct {
	Input  string `arg:"" optional:"" name:"input" help:"Input directory (defaults.input_dir from config)" type:"path"`
	Output string `short:"o" help:"Output directory (defaults.output_dir from config)" type:"path"`
}

// shutdownTimeout bounds the wait for the conversion worker after the UI exits
const shutdownTimeout = 10 * time.Second

func (cmd *UICmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.ConfigOrDefault()

	profile, err := convert.LookupProfile(cfg.Defaults.Format)
	if err != nil {
		return err
	}

	abortCtx, abort := context.WithCancel(context.Background())
	defer abort()

	model := ui.NewConverterModel(ui.Options{
		Version:      appCtx.VersionOrDefault(),
		InputDir:     orDefault(cmd.Input, cfg.Defaults.InputDir),
		OutputDir:    orDefault(cmd.Output, cfg.Defaults.OutputDir),
		Profile:      profile,
		OnConflict:   cfg.Defaults.OnConflict,
		Scanner:      NewScanner(appCtx),
		Orchestrator: NewOrchestrator(appCtx, cfg.ShouldOpenOutput(), abortCtx),
		OpenDir:      utils.DirectoryOpener{Command: cfg.Tools.Opener}.Open,
		PickDir:      utils.PickDirectory,
		Tools:        utils.CheckDependencies(ToolDependencies(cfg)),
		Log:          appCtx.Logger("ui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()

	// leaving the UI kills any tool still running
	abort()
	if m, ok := final.(ui.ConverterModel); ok && !m.Shutdown(shutdownTimeout) {
		appCtx.Logger("ui").Warn("conversion worker did not stop in time")
	}
	return err
}
