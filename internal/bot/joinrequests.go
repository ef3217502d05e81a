package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/models"
)

// handleJoinRequest approves a pending join request, records it and
// privately sends the ad followed by the welcome message.
// Only a failed approval stops the sequence; every later step is best effort.
func (b *Bot) handleJoinRequest(ctx context.Context, request *tgbotapi.ChatJoinRequest) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleJoinRequest", zap.Any("panic", r))
		}
	}()

	user := request.From
	chat := request.Chat
	logger := b.logger.With(
		zap.Int64("user_id", user.ID),
		zap.Int64("chat_id", chat.ID),
	)

	approve := tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chat.ID},
		UserID:     user.ID,
	}
	if _, err := b.api.Request(approve); err != nil {
		logger.Error("Error approving join request", zap.Error(err))
		return
	}

	logger.Info("Approved join request",
		zap.String("first_name", user.FirstName),
		zap.String("chat_title", chat.Title),
	)

	event := models.JoinEvent{
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
		ChatID:    chat.ID,
		ChatTitle: chat.Title,
	}
	if err := b.db.RecordJoin(ctx, event); err != nil {
		logger.Warn("Failed to record join", zap.Error(err))
	}

	if err := b.sendCurrentAd(ctx, user.ID); err != nil {
		logger.Warn("Could not send ad to user", zap.Error(err))
	}

	if err := b.sendWelcome(user.ID); err != nil {
		logger.Warn("Could not send private message to user", zap.Error(err))
	}
}

// sendCurrentAd sends the configured ad to chatID; without an ad it does nothing
func (b *Bot) sendCurrentAd(ctx context.Context, chatID int64) error {
	ad, err := b.ads.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ad: %w", err)
	}
	if ad == nil {
		return nil
	}
	return b.sendAd(chatID, ad, b.trackClicks)
}
