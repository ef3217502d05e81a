package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// allowedUpdates must list chat_join_request explicitly, Telegram omits it by default
var allowedUpdates = []string{"message", "callback_query", "chat_join_request"}

var errNoClient = errors.New("bot has no Telegram client")

// Start starts the bot in polling mode
func (b *Bot) Start() error {
	if b.client == nil {
		return errNoClient
	}

	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	_, err := b.client.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	// Create update configuration
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = allowedUpdates

	// Get updates channel
	updates := b.client.GetUpdatesChan(u)

	b.logger.Info("Bot started successfully. Waiting for updates...")

	// Handle updates (blocks here)
	b.handleUpdates(updates)
	return nil
}

// Stop stops the polling loop started by Start
func (b *Bot) Stop() {
	if b.client != nil {
		b.client.StopReceivingUpdates()
	}
}

// StartWebhook sets up the bot to receive updates via webhook
func (b *Bot) StartWebhook(webhookURL string) error {
	if b.client == nil {
		return errNoClient
	}

	b.logger.Info("Setting up webhook", zap.String("webhook_url", webhookURL))

	// Configure webhook
	webhookConfig, err := tgbotapi.NewWebhook(webhookURL + "/telegram-webhook")
	if err != nil {
		return err
	}
	webhookConfig.MaxConnections = 40
	webhookConfig.AllowedUpdates = allowedUpdates

	_, err = b.client.Request(webhookConfig)
	if err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_url", webhookURL))
		return err
	}

	// Get webhook info to verify
	info, err := b.client.GetWebhookInfo()
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.String("url", info.URL),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}

	b.logger.Info("Bot configured for webhook mode")
	return nil
}

// HandleWebhookUpdate processes a single update from webhook or polling
func (b *Bot) HandleWebhookUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(update.CallbackQuery)
	case update.ChatJoinRequest != nil:
		b.handleJoinRequest(context.Background(), update.ChatJoinRequest)
	}
}

// handleUpdates processes incoming updates from polling mode
func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		b.HandleWebhookUpdate(update)
	}
}
