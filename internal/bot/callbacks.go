package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/models"
)

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	if query.From == nil {
		return
	}

	ctx := context.Background()
	data := query.Data

	switch {
	case strings.HasPrefix(data, callbackAdClick):
		b.handleAdClickCallback(ctx, query)

	case strings.HasPrefix(data, callbackStats), strings.HasPrefix(data, callbackClearAd):
		if !b.isAdmin(query.From.ID) {
			b.logger.Warn("Unauthorized callback query attempt",
				zap.Int64("user_id", query.From.ID),
				zap.String("username", query.From.UserName),
				zap.String("callback_data", data),
			)
			b.answerCallback(query.ID, msgUnknownCommand)
			return
		}
		if strings.HasPrefix(data, callbackStats) {
			b.handleStatsCallback(ctx, query)
		} else {
			b.handleClearAdCallback(ctx, query)
		}

	default:
		b.answerCallback(query.ID, "")
	}
}

// handleStatsCallback sends the report for the chosen window
func (b *Bot) handleStatsCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	days, err := strconv.Atoi(strings.TrimPrefix(query.Data, callbackStats))
	if err != nil || days < 0 {
		b.answerCallback(query.ID, "")
		return
	}

	b.answerCallback(query.ID, "")
	b.sendStatsReport(ctx, callbackChatID(query), days)
}

// handleClearAdCallback applies the /clearad confirmation
func (b *Bot) handleClearAdCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := callbackChatID(query)
	b.answerCallback(query.ID, "")

	if strings.TrimPrefix(query.Data, callbackClearAd) != "confirm" {
		b.reply(chatID, msgClearKept)
		return
	}

	if err := b.ads.Clear(ctx); err != nil {
		b.logger.Error("Failed to clear ad", zap.Error(err))
		b.reply(chatID, msgInternalError)
		return
	}

	b.logger.Info("Ad cleared", zap.Int64("user_id", query.From.ID))
	b.reply(chatID, msgAdCleared)
}

// handleAdClickCallback counts a press on a tracked ad button and hands
// out the link it stands for. Buttons of a replaced ad are gone and are
// never counted.
func (b *Bot) handleAdClickCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	buttonID, err := strconv.ParseInt(strings.TrimPrefix(query.Data, callbackAdClick), 10, 64)
	if err != nil {
		b.answerCallback(query.ID, "")
		return
	}

	ad, err := b.ads.Current(ctx)
	if err != nil {
		b.logger.Error("Failed to load ad for click", zap.Error(err))
		b.answerCallback(query.ID, "")
		return
	}

	var target *models.AdButton
	if ad != nil {
		for i := range ad.Buttons {
			if ad.Buttons[i].ID == buttonID {
				target = &ad.Buttons[i]
				break
			}
		}
	}
	if target == nil {
		b.logger.Debug("Pressed button no longer exists",
			zap.Int64("user_id", query.From.ID),
			zap.Int64("button_id", buttonID),
		)
		b.answerCallback(query.ID, msgLinkGone)
		return
	}

	event := models.ClickEvent{
		UserID:   query.From.ID,
		Username: query.From.UserName,
	}
	if err := b.db.RecordClick(ctx, event); err != nil {
		b.logger.Warn("Failed to record click",
			zap.Error(err),
			zap.Int64("user_id", query.From.ID),
		)
	}

	b.answerCallback(query.ID, "")

	msg := tgbotapi.NewMessage(callbackChatID(query), fmt.Sprintf(msgOpenLink, target.Label))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(target.Label, target.URL),
		),
	)
	b.sendMessage(msg)
}

// callbackChatID is the chat the pressed button lives in, falling back
// to the presser's private chat
func callbackChatID(query *tgbotapi.CallbackQuery) int64 {
	if query.Message != nil && query.Message.Chat != nil {
		return query.Message.Chat.ID
	}
	return query.From.ID
}
