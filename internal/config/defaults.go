package config

const (
	defaultConfigPath         = "~/.config/ggnmatch/config.toml"
	projectConfigName         = "ggnmatch.toml"
	defaultGGNBaseURL         = "https://gazellegames.net"
	defaultGGNUserAgent       = "ggnmatch/dev"
	defaultGGNRequestTimeout  = 30
	defaultRateLimitCalls     = 5
	defaultRateLimitWindow    = 10
	defaultReportPath         = "output.html"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultAllowNonSteamLinks = false
)

var defaultPlatforms = []string{"Windows", "Mac", "Linux"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	platforms := make([]string, len(defaultPlatforms))
	copy(platforms, defaultPlatforms)
	return Config{
		GGN: GGN{
			BaseURL:               defaultGGNBaseURL,
			UserAgent:             defaultGGNUserAgent,
			RequestTimeoutSeconds: defaultGGNRequestTimeout,
		},
		RateLimit: RateLimit{
			Calls:         defaultRateLimitCalls,
			WindowSeconds: defaultRateLimitWindow,
		},
		Matching: Matching{
			Platforms:          platforms,
			AllowNonSteamLinks: defaultAllowNonSteamLinks,
		},
		Output: Output{
			ReportPath: defaultReportPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
		},
	}
}
