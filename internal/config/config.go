package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Monitor    Monitor    `mapstructure:"monitor"`
	Polymarket Polymarket `mapstructure:"polymarket"`
	Thresholds Thresholds `mapstructure:"thresholds"`
	Filters    Filters    `mapstructure:"filters"`
	Store      Store      `mapstructure:"store"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Logger     Logger     `mapstructure:"logger"`
	Database   Database   `mapstructure:"database"`
}

// Monitor holds the run-driver configuration.
type Monitor struct {
	// Mode is "poll" (periodic REST fetch) or "stream" (real-time WebSocket).
	Mode                string `mapstructure:"mode"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
}

// Polymarket holds the configuration for the Polymarket data APIs.
type Polymarket struct {
	DataAPIURL     string  `mapstructure:"data_api_url"`
	WSURL          string  `mapstructure:"ws_url"`
	FetchLimit     int     `mapstructure:"fetch_limit"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Thresholds holds the alerting thresholds.
type Thresholds struct {
	BigTradeUSD        float64 `mapstructure:"big_trade_usd"`
	NewAccountValueUSD float64 `mapstructure:"new_account_value_usd"`
	AccountAgeDays     float64 `mapstructure:"account_age_days"`
}

// Filters holds the keyword filters applied to market title and slug.
type Filters struct {
	KeywordAllow []string `mapstructure:"keyword_allow"`
	KeywordDeny  []string `mapstructure:"keyword_deny"`
}

// Store holds retention settings for the persistent state tables.
type Store struct {
	SeenRetentionDays int `mapstructure:"seen_retention_days"`
	WalletTTLDays     int `mapstructure:"wallet_ttl_days"`
}

// Telegram holds the notification sink credentials. An empty token
// disables Telegram delivery; alerts are then only logged.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Database holds the configuration for the SQLite state database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("monitor.mode", "poll")
	viper.SetDefault("monitor.poll_interval_seconds", 60)
	viper.SetDefault("polymarket.data_api_url", "https://data-api.polymarket.com")
	viper.SetDefault("polymarket.ws_url", "wss://real-time-data.polymarket.com")
	viper.SetDefault("polymarket.fetch_limit", 100)
	viper.SetDefault("polymarket.rate_limit", 10)      // requests per second
	viper.SetDefault("polymarket.rate_limit_burst", 5) // burst size
	viper.SetDefault("thresholds.big_trade_usd", 10000)
	viper.SetDefault("thresholds.new_account_value_usd", 10000)
	viper.SetDefault("thresholds.account_age_days", 7)
	viper.SetDefault("store.seen_retention_days", 21)
	viper.SetDefault("store.wallet_ttl_days", 14)
	viper.SetDefault("database.dsn", ".state/polymarket_state.sqlite")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
