package types

import (
	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/config"
	"github.com/lepinkainen/resolveconv/logging"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Config  *config.Config
	Log     *logrus.Logger
}

// VersionOrDefault returns the version, tolerating a nil context
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// ConfigOrDefault returns the loaded configuration or the built-in defaults
func (a *AppContext) ConfigOrDefault() *config.Config {
	if a == nil || a.Config == nil {
		return config.Default()
	}
	return a.Config
}

// Logger returns an entry for the named component. Without a configured
// logger it falls back to the logrus standard logger.
func (a *AppContext) Logger(component string) *logrus.Entry {
	if a == nil || a.Log == nil {
		return logrus.StandardLogger().WithField("component", component)
	}
	return logging.Component(a.Log, component)
}
