package clients

import (
	"go.uber.org/zap"

	"soltracker/clients/coingecko"
	"soltracker/clients/discord"
	"soltracker/clients/helius"
	"soltracker/clients/notifier"
	"soltracker/clients/solanarpc"
	"soltracker/clients/telegram"
	"soltracker/config"
)

type Clients struct {
	Logger *zap.Logger

	Discord   *discord.DiscordClient
	Telegram  *telegram.TelegramClient
	Notifier  notifier.Notifier // Combined notifier for all channels
	SolanaRPC *solanarpc.SolanaRPCClient
	Helius    *helius.HeliusClient
	CoinGecko *coingecko.CoinGeckoClient
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	discordClient := discord.NewDiscordClient(logger, cfg)
	telegramClient := telegram.NewTelegramClient(logger, cfg)

	// Create combined notifier for all channels
	multiNotifier := notifier.NewMultiNotifier(discordClient, telegramClient)

	c := &Clients{
		Logger:    logger,
		Discord:   discordClient,
		Telegram:  telegramClient,
		Notifier:  multiNotifier,
		CoinGecko: coingecko.NewCoinGeckoClient(logger, cfg),
	}

	// Only build feed clients the selected mode needs
	switch cfg.Mode {
	case config.ModePoll:
		c.Helius = helius.NewHeliusClient(logger, cfg)
	default:
		c.SolanaRPC = solanarpc.NewSolanaRPCClient(logger, cfg)
	}

	return c
}
