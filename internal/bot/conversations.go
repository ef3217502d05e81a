package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/wizard"
)

// handleWizardStep feeds one admin message to the ad setup session
func (b *Bot) handleWizardStep(ctx context.Context, message *tgbotapi.Message, session *wizard.Session) {
	chatID := message.Chat.ID
	logger := b.logger.With(
		zap.String("session_id", session.ID),
		zap.Int64("user_id", session.AdminID),
	)

	previous := session.State
	result := session.Apply(wizardInput(message), b.urlPolicy)

	switch result.Outcome {
	case wizard.Advanced:
		logger.Debug("Ad setup advanced",
			zap.Stringer("from", previous),
			zap.Stringer("to", session.State),
		)
		b.reply(chatID, wizardPrompt(session.State))

	case wizard.ButtonAdded:
		b.reply(chatID, fmt.Sprintf(msgButtonAdded, len(session.Draft.Buttons)))

	case wizard.Rejected:
		logger.Debug("Ad setup input rejected",
			zap.Stringer("state", session.State),
			zap.Error(result.Err),
		)
		b.reply(chatID, rejectionText(result.Err, b.urlPolicy)+"\n\n"+wizardPrompt(session.State))

	case wizard.Cancelled:
		b.sessions.End(session.AdminID)
		logger.Info("Ad setup cancelled", zap.Stringer("state", previous))
		b.reply(chatID, msgWizardCanceled)

	case wizard.Commit:
		b.commitWizard(ctx, chatID, session, logger)
	}
}

// commitWizard persists the draft and ends the session. A failed save
// keeps the session so the admin can retry the final step.
func (b *Bot) commitWizard(ctx context.Context, chatID int64, session *wizard.Session, logger *zap.Logger) {
	ad := session.Draft.Ad()

	if err := b.ads.Commit(ctx, ad); err != nil {
		logger.Error("Failed to save ad", zap.Error(err))
		b.reply(chatID, msgAdSaveFailed)
		return
	}

	b.sessions.End(session.AdminID)
	logger.Info("Ad saved",
		zap.Bool("has_photo", ad.HasPhoto()),
		zap.Int("buttons", len(ad.Buttons)),
	)

	b.reply(chatID, msgAdSaved)
	if err := b.sendAd(chatID, &ad, false); err != nil {
		logger.Warn("Failed to send ad preview", zap.Error(err))
	}
}

// wizardInput extracts what the wizard needs from a message
func wizardInput(message *tgbotapi.Message) wizard.Input {
	if message.IsCommand() {
		return wizard.Input{Command: message.Command()}
	}

	input := wizard.Input{Text: message.Text}
	if len(message.Photo) > 0 {
		// Telegram lists sizes ascending, the last one is the largest
		input.PhotoFileID = message.Photo[len(message.Photo)-1].FileID
	}
	return input
}
