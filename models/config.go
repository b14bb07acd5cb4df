package models

import "time"

type EnvConfig struct {
	BotToken          string
	BotAPIURL         string
	ConcurrentUpdates int

	Mode          string
	WebhookURL    string
	WebhookSecret string
	Port          int

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	HTTPSProxy string
	HTTPProxy  string
	NoProxy    string

	FetchTimeout time.Duration
	APITimeout   time.Duration

	RedGIFsStrategies []string
	ChromePath        string
	ReportAPIFallback bool
	MessageChunkSize  int

	RateLimit float64 // requests per minute, per chat
	RateBurst int
	Whitelist []int64

	LogLevel   string
	LogDumpDir string
}

// DatabaseEnabled reports whether a database host was configured.
// Without one the bot runs fully stateless.
func (cfg *EnvConfig) DatabaseEnabled() bool {
	return cfg.DBHost != ""
}

type ExtractorConfig struct {
	HTTPProxy    string `yaml:"http_proxy"`
	HTTPSProxy   string `yaml:"https_proxy"`
	NoProxy      string `yaml:"no_proxy"`
	EdgeProxyURL string `yaml:"edge_proxy_url"`
	UserAgent    string `yaml:"user_agent"`
	Cookies      string `yaml:"cookies"`

	IsDisabled bool `yaml:"disabled"`
}
