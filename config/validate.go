package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lepinkainen/resolveconv/convert"
)

// OnConflictAsk defers the conflict policy to the user.
const OnConflictAsk = "ask"

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if _, err := convert.LookupProfile(c.Defaults.Format); err != nil {
		errs = append(errs, fmt.Sprintf("defaults.format: must be one of %s; got %q",
			strings.Join(convert.ProfileIDs(), ", "), c.Defaults.Format))
	}

	if c.Defaults.OnConflict != OnConflictAsk {
		if _, err := convert.ParsePolicy(c.Defaults.OnConflict); err != nil {
			errs = append(errs, fmt.Sprintf("defaults.on_conflict: must be ask, overwrite, skip, suffix or timestamp; got %q",
				c.Defaults.OnConflict))
		}
	}

	if c.Tools.ProbeTimeout.Duration < 0 {
		errs = append(errs, fmt.Sprintf("tools.probe_timeout: must be positive, got %s", c.Tools.ProbeTimeout))
	}

	return errs
}
