package commands

import (
	"golfexport/internal/garmin"
	"golfexport/internal/golfcsv"
	"golfexport/lib/configutil"
	"os"
	"strings"
	"time"
)

const tokenEnv = "GARMIN_GOLF_TOKEN"

type Config struct {
	BaseUrl   string `json:"base_url"`
	Token     string `json:"token"`
	OutputDir string `json:"output_dir"`
	HoleSlots int    `json:"hole_slots"`
	// 0 disables the limiter, unset uses the default
	RequestsPerSecond *float64 `json:"requests_per_second"`
	TimeoutSeconds    int      `json:"timeout_seconds"`
	Timezone          string   `json:"timezone"`
	AppVersion        string   `json:"app_version"`
	SummaryPageSize   int      `json:"summary_page_size"`
	BypassCloudflare  bool     `json:"bypass_cloudflare"`
}

var defaultRequestsPerSecond = 2.0

var defaultConfig = Config{
	BaseUrl:           garmin.DefaultBaseUrl,
	OutputDir:         ".",
	HoleSlots:         golfcsv.DefaultHoleSlots,
	RequestsPerSecond: &defaultRequestsPerSecond,
	TimeoutSeconds:    60,
	AppVersion:        garmin.DefaultAppVersion,
	SummaryPageSize:   garmin.DefaultSummaryPageSize,
}

// loadConfig reads the config file (missing files are fine) and applies the
// persistent flags on top of it.
func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfigWithDefaults(*configPath, defaultConfig)
	if err != nil {
		return Config{}, err
	}
	if *baseUrl != "" {
		cfg.BaseUrl = *baseUrl
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	return cfg, nil
}

// credential resolves the token: flag, then environment, then config.
func (c Config) credential() garmin.Credential {
	if strings.TrimSpace(*token) != "" {
		return garmin.NewCredential(*token)
	}
	if env := os.Getenv(tokenEnv); strings.TrimSpace(env) != "" {
		return garmin.NewCredential(env)
	}
	return garmin.NewCredential(c.Token)
}

func (c Config) requestsPerSecond() float64 {
	if c.RequestsPerSecond == nil {
		return defaultRequestsPerSecond
	}
	return *c.RequestsPerSecond
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
