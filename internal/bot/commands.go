package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// defaultStatsWindow is the window used by a bare /stats, in days
const defaultStatsWindow = 7

// handleStart greets the user and offers the add-to-chat links
func (b *Bot) handleStart(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, greeting(message.From.FirstName))
	msg.ReplyMarkup = b.addKeyboard()
	b.sendMessage(msg)
}

// handleHelp shows the public help, extended for the admin
func (b *Bot) handleHelp(message *tgbotapi.Message, isAdmin bool) {
	text := msgPublicHelp
	if isAdmin {
		text += msgAdminHelp
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.sendMessage(msg)
}

// handleSetAd starts a fresh ad setup, dropping any unfinished one.
// The wizard only listens in the private chat, so it is started there only.
func (b *Bot) handleSetAd(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		msg := tgbotapi.NewMessage(message.Chat.ID, msgSetAdPrivateOnly)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(btnOpenPrivateChat, b.privateChatLink()),
			),
		)
		b.sendMessage(msg)
		return
	}

	b.wizardMu.Lock()
	session := b.sessions.Begin(message.From.ID)
	b.wizardMu.Unlock()

	b.logger.Info("Ad setup started",
		zap.String("session_id", session.ID),
		zap.Int64("user_id", session.AdminID),
	)

	b.reply(message.Chat.ID, msgWizardStart)
	b.reply(message.Chat.ID, wizardPrompt(session.State))
}

// handleViewAd previews the ad exactly as members receive it
func (b *Bot) handleViewAd(ctx context.Context, message *tgbotapi.Message) {
	ad, err := b.ads.Current(ctx)
	if err != nil {
		b.logger.Error("Failed to load ad", zap.Error(err))
		b.reply(message.Chat.ID, msgInternalError)
		return
	}

	if ad == nil {
		b.reply(message.Chat.ID, msgNoAd)
		return
	}

	if err := b.sendAd(message.Chat.ID, ad, false); err != nil {
		b.logger.Warn("Failed to send ad preview", zap.Error(err))
	}
	b.reply(message.Chat.ID, adSummary(ad))
}

// handleClearAd asks for confirmation before removing the ad
func (b *Bot) handleClearAd(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, msgConfirmClear)
	msg.ReplyMarkup = clearConfirmKeyboard()
	b.sendMessage(msg)
}

// handleStats shows the default report with a window picker
func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	b.sendStatsReport(ctx, message.Chat.ID, defaultStatsWindow)
}

// sendStatsReport generates and sends the report for windowDays
func (b *Bot) sendStatsReport(ctx context.Context, chatID int64, windowDays int) {
	report, err := b.stats.Get(ctx, windowDays)
	if err != nil {
		b.logger.Error("Failed to get stats",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("window_days", windowDays),
		)
		b.reply(chatID, msgInternalError)
		return
	}

	b.logger.Info("Generated stats report",
		zap.Int64("chat_id", chatID),
		zap.Int("window_days", windowDays),
		zap.Int64("recent_joins", report.RecentJoins),
	)

	msg := tgbotapi.NewMessage(chatID, formatStatsReport(report, b.trackClicks))
	msg.ReplyMarkup = statsKeyboard()
	b.sendMessage(msg)
}
