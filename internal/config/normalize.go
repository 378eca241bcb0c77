package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeGGN()
	c.normalizeMatching()
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeGGN() {
	c.GGN.APIKey = strings.TrimSpace(c.GGN.APIKey)
	if c.GGN.APIKey == "" {
		if value, ok := os.LookupEnv("GGN_API_KEY"); ok {
			c.GGN.APIKey = strings.TrimSpace(value)
		}
	}
	c.GGN.BaseURL = strings.TrimRight(strings.TrimSpace(c.GGN.BaseURL), "/")
	if c.GGN.BaseURL == "" {
		c.GGN.BaseURL = defaultGGNBaseURL
	}
	c.GGN.UserAgent = strings.TrimSpace(c.GGN.UserAgent)
	if c.GGN.UserAgent == "" {
		c.GGN.UserAgent = defaultGGNUserAgent
	}
}

func (c *Config) normalizeMatching() {
	platforms := make([]string, 0, len(c.Matching.Platforms))
	seen := make(map[string]struct{}, len(c.Matching.Platforms))
	for _, platform := range c.Matching.Platforms {
		platform = strings.TrimSpace(platform)
		if platform == "" {
			continue
		}
		if _, ok := seen[platform]; ok {
			continue
		}
		seen[platform] = struct{}{}
		platforms = append(platforms, platform)
	}
	c.Matching.Platforms = platforms
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.ReportPath) == "" {
		c.Output.ReportPath = defaultReportPath
	}
	if c.Output.ReportPath, err = expandPath(strings.TrimSpace(c.Output.ReportPath)); err != nil {
		return fmt.Errorf("output.report_path: %w", err)
	}
	if c.Output.ResultsDB, err = expandPath(strings.TrimSpace(c.Output.ResultsDB)); err != nil {
		return fmt.Errorf("output.results_db: %w", err)
	}
	if c.Output.MetricsFile, err = expandPath(strings.TrimSpace(c.Output.MetricsFile)); err != nil {
		return fmt.Errorf("output.metrics_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("LOGLEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
