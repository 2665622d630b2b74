package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/cmd"
	"github.com/lepinkainen/resolveconv/config"
	"github.com/lepinkainen/resolveconv/logging"
	"github.com/lepinkainen/resolveconv/types"
)

var Version = "dev"

type CLI struct {
	Config   string           `help:"Path to a TOML config file (default: $RESOLVECONV_CONFIG, ./resolveconv.toml, ~/.config/resolveconv/config.toml)" type:"path"`
	LogLevel string           `name:"log-level" help:"Diagnostic log level: error, warn, info, debug or trace (log.level from config)"`
	LogFile  string           `name:"log-file" help:"Diagnostic log file for the interactive UI (log.file from config)" type:"path"`
	Version  kong.VersionFlag `help:"Show version and exit"`

	UI      cmd.UICmd      `cmd:"" default:"withargs" help:"Interactive converter (default)"`
	Scan    cmd.ScanCmd    `cmd:"" help:"List the videos found in a directory"`
	Convert cmd.ConvertCmd `cmd:"" help:"Convert every video in a directory without the UI"`
	Verify  cmd.VerifyCmd  `cmd:"" help:"Compare converted videos with their sources by perceptual hash"`
	Tools   cmd.ToolsCmd   `cmd:"" help:"Check the external tools used for probing and conversion"`
}

// loadConfig reads the file given on the command line, or discovers one
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// newLogger logs to stderr, except for the interactive UI which owns the
// terminal and logs to a file instead
func newLogger(command string, cli CLI, cfg *config.Config) (*logrus.Logger, io.Closer, error) {
	level := cfg.Log.Level
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}

	if strings.HasPrefix(command, "ui") {
		file := cfg.Log.File
		if cli.LogFile != "" {
			file = cli.LogFile
		}
		return logging.NewFile(level, file)
	}

	log, err := logging.New(level, os.Stderr)
	return log, io.NopCloser(nil), err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("resolveconv"),
		kong.Description("Batch convert videos for DaVinci Resolve with Avidemux and HandBrake"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	cfg, err := loadConfig(cli.Config)
	ctx.FatalIfErrorf(err)

	log, closer, err := newLogger(ctx.Command(), cli, cfg)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&types.AppContext{
		Version: Version,
		Config:  cfg,
		Log:     log,
	})
	_ = closer.Close()
	ctx.FatalIfErrorf(err)
}
