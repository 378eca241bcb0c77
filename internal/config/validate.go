package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingAPIKey indicates no API key was configured.
var ErrMissingAPIKey = errors.New("ggn.api_key is required")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireAPIKey bool) error {
	if err := c.validateGGN(requireAPIKey); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGGN(requireAPIKey bool) error {
	if requireAPIKey && c.GGN.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("%w. Set GGN_API_KEY env var, pass --api-key, or edit %s (create with 'ggnmatch config init')", ErrMissingAPIKey, defaultPath)
	}
	parsed, err := url.Parse(c.GGN.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("ggn.base_url must be an absolute URL, got %q", c.GGN.BaseURL)
	}
	if c.GGN.RequestTimeoutSeconds <= 0 {
		return errors.New("ggn.request_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	return ensurePositiveMap(map[string]int{
		"rate_limit.calls":          c.RateLimit.Calls,
		"rate_limit.window_seconds": c.RateLimit.WindowSeconds,
	})
}

func (c *Config) validateMatching() error {
	if len(c.Matching.Platforms) == 0 {
		return errors.New("matching.platforms must list at least one platform")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
