package config

import (
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of config validation.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validate checks the config for invalid values. An invalid result is fatal
// at startup; nothing else in the process treats config errors as fatal.
func (c *Config) Validate() ValidationResult {
	var errors []ValidationError

	if len(c.Wallets) == 0 {
		errors = append(errors, ValidationError{
			Field:   "wallets",
			Message: "at least one wallet address is required",
		})
	}
	for _, w := range c.Wallets {
		if err := validateAddress(w); err != nil {
			errors = append(errors, ValidationError{
				Field:   "wallets",
				Message: fmt.Sprintf("invalid address %q: %v", w, err),
			})
		}
	}

	if c.Mode != ModeSubscribe && c.Mode != ModePoll {
		errors = append(errors, ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("must be %q or %q, got %q", ModeSubscribe, ModePoll, c.Mode),
		})
	}

	if c.Mode == ModeSubscribe && c.Solana.WSURL == "" {
		errors = append(errors, ValidationError{
			Field:   "solana.ws_url",
			Message: "required in subscribe mode",
		})
	}
	if c.Solana.RPCURL == "" {
		errors = append(errors, ValidationError{
			Field:   "solana.rpc_url",
			Message: "must not be empty",
		})
	}
	if c.Mode == ModePoll && c.Helius.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "helius.api_key",
			Message: "required in poll mode",
		})
	}

	if c.Telegram.BotToken == "" && c.Discord.BotToken == "" {
		errors = append(errors, ValidationError{
			Field:   "notifiers",
			Message: "at least one of Telegram or Discord must be configured",
		})
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errors = append(errors, ValidationError{
			Field:   "telegram.chat_id",
			Message: "required when the bot token is set",
		})
	}
	if c.Discord.BotToken != "" && c.Discord.ChannelID == "" {
		errors = append(errors, ValidationError{
			Field:   "discord.channel_id",
			Message: "required when the bot token is set",
		})
	}

	errors = append(errors, validateMonitor(&c.Monitor)...)

	if c.Price.Timeout < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "price.timeout",
			Message: "must be at least 1 second",
		})
	}

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func validateMonitor(m *MonitorConfig) []ValidationError {
	var errors []ValidationError

	if m.PollInterval < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "monitor.poll_interval",
			Message: "must be at least 1 second",
		})
	}

	if m.FetchLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "monitor.fetch_limit",
			Message: "must be at least 1",
		})
	}

	if m.RetryDelay < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "monitor.retry_delay",
			Message: "must be at least 1 second",
		})
	}

	if m.RateLimitBackoff < 1*time.Second {
		errors = append(errors, ValidationError{
			Field:   "monitor.rate_limit_backoff",
			Message: "must be at least 1 second",
		})
	}

	if m.SeenCapacity < 0 {
		errors = append(errors, ValidationError{
			Field:   "monitor.seen_capacity",
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateAddress checks that a wallet address is a well-formed Solana
// public key (base58, 32 bytes).
func validateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("not base58: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("decodes to %d bytes, want 32", len(raw))
	}
	return nil
}
