package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"linkrelay/models"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

var Env = GetDefaultConfig()

var ErrMissingToken = errors.New("TELEGRAM_TOKEN env is not set")

// Load reads an optional .env file, then the environment
// and the per-extractor configuration file.
func Load() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		zap.S().Warnf("failed to load .env file: %v", err)
	}
	envErr := LoadEnv()
	if envErr != nil && !errors.Is(envErr, ErrMissingToken) {
		return envErr
	}
	if err := LoadExtractorConfigs(); err != nil {
		return err
	}
	return envErr
}

func LoadEnv() error {
	if value := firstEnv("TELEGRAM_TOKEN", "BOT_TOKEN"); value != "" {
		Env.BotToken = value
	}
	if value := os.Getenv("BOT_API_URL"); value != "" {
		Env.BotAPIURL = value
	}
	if value := os.Getenv("MODE"); value != "" {
		if value != ModeWebhook && value != ModePolling {
			return fmt.Errorf("MODE env must be %q or %q", ModeWebhook, ModePolling)
		}
		Env.Mode = value
	}
	if value := os.Getenv("WEBHOOK_URL"); value != "" {
		Env.WebhookURL = strings.TrimSuffix(value, "/")
	}
	if value := os.Getenv("WEBHOOK_SECRET"); value != "" {
		Env.WebhookSecret = value
	}
	if value := os.Getenv("PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("PORT env is not a valid integer")
		}
		Env.Port = port
	}
	if value := os.Getenv("CONCURRENT_UPDATES"); value != "" {
		updates, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("CONCURRENT_UPDATES env is not a valid integer")
		}
		Env.ConcurrentUpdates = updates
	}
	if value := os.Getenv("DB_HOST"); value != "" {
		Env.DBHost = value
	}
	if value := os.Getenv("DB_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("DB_PORT env is not a valid integer")
		}
		Env.DBPort = port
	}
	if value := os.Getenv("DB_NAME"); value != "" {
		Env.DBName = value
	}
	if value := os.Getenv("DB_USER"); value != "" {
		Env.DBUser = value
	}
	if value := os.Getenv("DB_PASSWORD"); value != "" {
		Env.DBPassword = value
	}
	if value := os.Getenv("HTTP_PROXY"); value != "" {
		Env.HTTPProxy = value
	}
	if value := os.Getenv("HTTPS_PROXY"); value != "" {
		Env.HTTPSProxy = value
	}
	if value := os.Getenv("NO_PROXY"); value != "" {
		Env.NoProxy = value
	}
	if value := os.Getenv("FETCH_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT env is not a valid duration: %w", err)
		}
		Env.FetchTimeout = timeout
	}
	if value := os.Getenv("API_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("API_TIMEOUT env is not a valid duration: %w", err)
		}
		Env.APITimeout = timeout
	}
	if value := os.Getenv("REDGIFS_STRATEGIES"); value != "" {
		Env.RedGIFsStrategies = splitList(value)
	}
	if value := os.Getenv("CHROME_PATH"); value != "" {
		Env.ChromePath = value
	}
	if value := os.Getenv("REPORT_API_FALLBACK"); value != "" {
		report, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("REPORT_API_FALLBACK env is not a valid boolean")
		}
		Env.ReportAPIFallback = report
	}
	if value := os.Getenv("MESSAGE_CHUNK_SIZE"); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			return fmt.Errorf("MESSAGE_CHUNK_SIZE env is not a valid positive integer")
		}
		Env.MessageChunkSize = size
	}
	if value := os.Getenv("RATE_LIMIT"); value != "" {
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT env is not a valid number")
		}
		Env.RateLimit = limit
	}
	if value := os.Getenv("RATE_BURST"); value != "" {
		burst, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("RATE_BURST env is not a valid integer")
		}
		Env.RateBurst = burst
	}
	if value := os.Getenv("WHITELIST"); value != "" {
		whitelist, err := parseWhitelist(value)
		if err != nil {
			return err
		}
		Env.Whitelist = whitelist
	}
	if value := os.Getenv("LOG_LEVEL"); value != "" {
		Env.LogLevel = value
	}
	if value := os.Getenv("LOG_DUMP_DIR"); value != "" {
		Env.LogDumpDir = value
	}
	if Env.BotToken == "" {
		return ErrMissingToken
	}
	if Env.Mode == ModeWebhook && Env.WebhookURL == "" {
		zap.S().Warn("WEBHOOK_URL is not set, webhook must be registered manually")
	}
	return nil
}

func GetDefaultConfig() *models.EnvConfig {
	return &models.EnvConfig{
		BotAPIURL:         gotgbot.DefaultAPIURL,
		ConcurrentUpdates: 50,

		Mode: ModeWebhook,
		Port: 5000,

		DBPort: 3306,
		DBName: "linkrelay",
		DBUser: "linkrelay",

		FetchTimeout: 15 * time.Second,
		APITimeout:   10 * time.Second,

		RedGIFsStrategies: []string{"regex", "jsonld", "api"},
		ReportAPIFallback: true,
		MessageChunkSize:  3500,

		RateLimit: 20,
		RateBurst: 5,

		LogLevel: "info",
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func splitList(value string) []string {
	var list []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}

func parseWhitelist(value string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(value) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("WHITELIST env contains an invalid chat id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
