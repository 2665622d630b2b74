package types

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/config"
)

func TestAppContextNil(t *testing.T) {
	var appCtx *AppContext

	if got := appCtx.VersionOrDefault(); got != DefaultVersion {
		t.Errorf("VersionOrDefault() = %q, expected %q", got, DefaultVersion)
	}
	if cfg := appCtx.ConfigOrDefault(); cfg.Defaults.Format != "resolve" {
		t.Errorf("ConfigOrDefault() format = %q, expected resolve", cfg.Defaults.Format)
	}
	if entry := appCtx.Logger("scan"); entry.Data["component"] != "scan" {
		t.Errorf("Logger() component = %v, expected scan", entry.Data["component"])
	}
}

func TestAppContextValues(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.OutputDir = "/out"
	appCtx := &AppContext{Version: "1.2.3", Config: cfg, Log: logrus.New()}

	if got := appCtx.VersionOrDefault(); got != "1.2.3" {
		t.Errorf("VersionOrDefault() = %q, expected 1.2.3", got)
	}
	if got := appCtx.ConfigOrDefault().Defaults.OutputDir; got != "/out" {
		t.Errorf("ConfigOrDefault() output = %q, expected /out", got)
	}
	if entry := appCtx.Logger("convert"); entry.Logger != appCtx.Log {
		t.Error("Logger() should use the configured logger")
	}
}
