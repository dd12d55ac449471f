package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var problems []error

	if c.Analysis.DefaultThreshold <= 0 || c.Analysis.DefaultThreshold > 1 {
		problems = append(problems, fmt.Errorf("analysis.default_threshold: must be in (0, 1], got %v", c.Analysis.DefaultThreshold))
	}
	if len(c.Analysis.ImageExtensions) == 0 && len(c.Analysis.VideoExtensions) == 0 {
		problems = append(problems, errors.New("analysis: at least one media extension is required"))
	}
	if c.Cache.MaxEntries < 0 {
		problems = append(problems, fmt.Errorf("cache.max_entries: must not be negative, got %d", c.Cache.MaxEntries))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}

	return errors.Join(problems...)
}
