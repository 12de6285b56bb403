package discord

import (
	"fmt"
	"soltracker/clients/notifier"
	"soltracker/config"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient sends alerts to Discord.
// Implements notifier.Notifier interface.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord alerts disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: cfg.Discord.ChannelID,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: cfg.Discord.ChannelID,
		}
	}

	logger.Info("discord bot initialized",
		zap.String("channelID", cfg.Discord.ChannelID),
	)

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: cfg.Discord.ChannelID,
	}
}

// SendStatus sends a plain text message.
// Implements notifier.Notifier interface.
func (dc *DiscordClient) SendStatus(message string) {
	if dc.session == nil {
		dc.logger.Warn("discord session not initialized, skipping message")
		return
	}

	_, err := dc.session.ChannelMessageSend(dc.channelID, message)
	if err != nil {
		dc.logger.Error("failed to send discord message", zap.Error(err))
		return
	}

	dc.logger.Info("sent discord status message")
}

// SendSwapAlert sends a rich embedded swap alert.
// Implements notifier.Notifier interface.
func (dc *DiscordClient) SendSwapAlert(alert notifier.SwapAlert) {
	if dc.session == nil {
		dc.logger.Warn("discord session not initialized, skipping alert")
		return
	}

	embed := dc.buildSwapEmbed(alert)

	_, err := dc.session.ChannelMessageSendEmbed(dc.channelID, embed)
	if err != nil {
		dc.logger.Error("failed to send discord embed", zap.Error(err))
		return
	}

	dc.logger.Info("sent discord swap alert",
		zap.String("wallet", notifier.ShortAddress(alert.Wallet)),
		zap.String("signature", notifier.ShortAddress(alert.Signature)),
	)
}

func (dc *DiscordClient) buildSwapEmbed(alert notifier.SwapAlert) *discordgo.MessageEmbed {
	color := 0x5865F2
	title := "🔄 Swap Detected"
	switch alert.Direction {
	case notifier.DirectionBuy:
		color = 0x2ECC71
		title = "🟢 Token Buy"
	case notifier.DirectionSell:
		color = 0xE74C3C
		title = "🔴 Token Sell"
	}

	venue := alert.Venue
	if venue == "" {
		venue = "UNKNOWN"
	}

	solMoved := "N/A"
	if alert.SolAmount > 0 {
		if alert.HasPrice {
			solMoved = fmt.Sprintf("%.4f (~$%.2f)", alert.SolAmount, alert.SolAmount*alert.PriceUSD)
		} else {
			solMoved = fmt.Sprintf("%.4f (price unavailable)", alert.SolAmount)
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Wallet",
			Value:  notifier.ShortAddress(alert.Wallet),
			Inline: true,
		},
		{
			Name:   "Venue",
			Value:  venue,
			Inline: true,
		},
		{
			Name:   "Sent",
			Value:  fmt.Sprintf("%.6f %s", alert.AmountIn, notifier.ShortAddress(alert.TokenIn)),
			Inline: true,
		},
		{
			Name:   "Received",
			Value:  fmt.Sprintf("%.6f %s", alert.AmountOut, notifier.ShortAddress(alert.TokenOut)),
			Inline: true,
		},
		{
			Name:   "SOL Moved",
			Value:  solMoved,
			Inline: true,
		},
	}

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "soltracker",
		},
		Timestamp: ts.UTC().Format(time.RFC3339),
	}

	if alert.Signature != "" {
		embed.URL = fmt.Sprintf("https://solscan.io/tx/%s", alert.Signature)
	}

	return embed
}

// Close closes the Discord session.
func (dc *DiscordClient) Close() error {
	if dc.session != nil {
		return dc.session.Close()
	}
	return nil
}
