package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/resolveconv/types"
	"github.com/lepinkainen/resolveconv/ui"
	"github.com/lepinkainen/resolveconv/utils"
)

// ToolsCmd shows where the external programs were found
type ToolsCmd struct {
	out io.Writer
}

func (cmd *ToolsCmd) Run(appCtx *types.AppContext) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	cfg := appCtx.ConfigOrDefault()

	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("resolveconv %s - tools", appCtx.VersionOrDefault())))
	if cfg.Path != "" {
		fmt.Fprintf(out, "Config: %s\n\n", cfg.Path)
	}

	deps := ToolDependencies(cfg)
	for _, s := range utils.CheckDependencies(deps) {
		if s.Found() {
			fmt.Fprintf(out, "%s %-13s %s\n", ui.SuccessStyle.Render("✅"), s.Name, s.Path)
			continue
		}
		fmt.Fprintf(out, "%s %-13s not found (%s)\n", ui.ErrorStyle.Render("❌"), s.Name, s.Purpose)
		fmt.Fprintf(out, "   %s\n", utils.InstallationInstructions(s.Binary))
	}

	return utils.ValidateDependencies(deps)
}
