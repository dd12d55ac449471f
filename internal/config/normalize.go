package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ClientDir != "" {
		if c.Paths.ClientDir, err = expandPath(c.Paths.ClientDir); err != nil {
			return fmt.Errorf("paths.client_dir: %w", err)
		}
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.DefaultThreshold == 0 {
		c.Analysis.DefaultThreshold = defaultThreshold
	}
	if len(c.Analysis.ImageExtensions) == 0 {
		c.Analysis.ImageExtensions = append([]string{}, defaultImageExtensions...)
	}
	if len(c.Analysis.VideoExtensions) == 0 {
		c.Analysis.VideoExtensions = append([]string{}, defaultVideoExtensions...)
	}
	c.Analysis.ImageExtensions = normalizeExtensions(c.Analysis.ImageExtensions)
	c.Analysis.VideoExtensions = normalizeExtensions(c.Analysis.VideoExtensions)
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		out = append(out, trimmed)
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
