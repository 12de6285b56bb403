package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Source modes for the transaction feed.
const (
	ModeSubscribe = "subscribe" // WebSocket logsSubscribe push feed
	ModePoll      = "poll"      // periodic enhanced-history polling
)

// Config holds all application configuration.
type Config struct {
	// Wallets to watch; fixed for the process lifetime
	Wallets []string

	// Transaction source mode
	Mode string

	// Solana RPC
	Solana SolanaConfig

	// Helius enhanced transactions API
	Helius HeliusConfig

	// Telegram
	Telegram TelegramConfig

	// Discord
	Discord DiscordConfig

	// Monitoring loop
	Monitor MonitorConfig

	// Price enrichment
	Price PriceConfig
}

// SolanaConfig holds Solana node endpoints.
type SolanaConfig struct {
	RPCURL string
	WSURL  string
}

// HeliusConfig holds Helius API configuration.
type HeliusConfig struct {
	APIKey  string // env var only
	BaseURL string
}

// TelegramConfig holds Telegram-related configuration.
type TelegramConfig struct {
	BotToken string // env var only
	ChatID   string
}

// DiscordConfig holds Discord-related configuration.
type DiscordConfig struct {
	BotToken  string // env var only
	ChannelID string
}

// MonitorConfig holds monitoring loop configuration.
type MonitorConfig struct {
	PollInterval     time.Duration // sleep between history polls
	FetchLimit       int           // records per history fetch
	RetryDelay       time.Duration // sleep after a generic source error
	RateLimitBackoff time.Duration // sleep after a rate-limit response
	SeenCapacity     int           // max signatures kept per wallet, 0 = unbounded
}

// PriceConfig holds price lookup configuration.
type PriceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Defaults returns a config with hardcoded default values.
func Defaults() *Config {
	return &Config{
		Mode: ModeSubscribe,
		Solana: SolanaConfig{
			RPCURL: "https://api.mainnet-beta.solana.com",
			WSURL:  "wss://api.mainnet-beta.solana.com",
		},
		Helius: HeliusConfig{
			BaseURL: "https://api.helius.xyz",
		},
		Monitor: MonitorConfig{
			PollInterval:     120 * time.Second,
			FetchLimit:       5,
			RetryDelay:       5 * time.Second,
			RateLimitBackoff: 600 * time.Second,
			SeenCapacity:     10000,
		},
		Price: PriceConfig{
			BaseURL: "https://api.coingecko.com",
			Timeout: 10 * time.Second,
		},
	}
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Wallets: envStringSlice("WALLET_ADDRESSES"),
		Mode:    strings.ToLower(envString("SOURCE_MODE", ModeSubscribe)),

		Solana: SolanaConfig{
			RPCURL: envString("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
			WSURL:  envString("SOLANA_WS_URL", "wss://api.mainnet-beta.solana.com"),
		},

		Helius: HeliusConfig{
			APIKey:  envString("HELIUS_API_KEY", ""),
			BaseURL: envString("HELIUS_BASE_URL", "https://api.helius.xyz"),
		},

		Telegram: TelegramConfig{
			BotToken: envString("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   envString("TELEGRAM_CHAT_ID", ""),
		},

		Discord: DiscordConfig{
			BotToken:  envString("DISCORD_BOT_TOKEN", ""),
			ChannelID: envString("DISCORD_CHANNEL_ID", ""),
		},

		Monitor: MonitorConfig{
			PollInterval:     envDuration("CHECK_INTERVAL", 120*time.Second),
			FetchLimit:       envInt("TX_LIMIT", 5),
			RetryDelay:       envDuration("RETRY_DELAY", 5*time.Second),
			RateLimitBackoff: envDuration("BACKOFF_TIME", 600*time.Second),
			SeenCapacity:     envInt("SEEN_CAPACITY", 10000),
		},

		Price: PriceConfig{
			BaseURL: envString("PRICE_API_URL", "https://api.coingecko.com"),
			Timeout: envDuration("PRICE_TIMEOUT", 10*time.Second),
		},
	}
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Bare numbers are treated as seconds for parity with older deployments.
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func envStringSlice(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
