package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/wizard"
)

// adminCommands answer non-admins exactly like an unknown command
var adminCommands = map[string]bool{
	"setad":              true,
	"viewad":             true,
	"clearad":            true,
	"stats":              true,
	wizard.CommandSkip:   true,
	wizard.CommandDone:   true,
	wizard.CommandCancel: true,
}

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			if message.Chat != nil {
				b.reply(message.Chat.ID, msgInternalError)
			}
		}
	}()

	if message.From == nil {
		return
	}

	userID := message.From.ID
	isAdmin := b.isAdmin(userID)
	ctx := context.Background()

	// An active wizard consumes plain messages and its own sub-commands
	if isAdmin && b.routesToWizard(message) && b.runWizardStep(ctx, message) {
		return
	}

	if !message.IsCommand() {
		return
	}

	command := message.Command()
	if adminCommands[command] && !isAdmin {
		b.logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", userID),
			zap.String("username", message.From.UserName),
			zap.String("first_name", message.From.FirstName),
			zap.String("last_name", message.From.LastName),
			zap.String("text", message.Text),
		)
		b.reply(message.Chat.ID, msgUnknownCommand)
		return
	}

	switch command {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message, isAdmin)
	case "setad":
		b.handleSetAd(message)
	case "viewad":
		b.handleViewAd(ctx, message)
	case "clearad":
		b.handleClearAd(message)
	case "stats":
		b.handleStats(ctx, message)
	case wizard.CommandSkip, wizard.CommandDone, wizard.CommandCancel:
		b.reply(message.Chat.ID, msgNoWizard)
	default:
		b.reply(message.Chat.ID, msgUnknownCommand)
	}
}

// runWizardStep applies message to the admin's active session, if any.
// Steps never interleave, so the draft is only touched by one update at a time.
func (b *Bot) runWizardStep(ctx context.Context, message *tgbotapi.Message) bool {
	b.wizardMu.Lock()
	defer b.wizardMu.Unlock()

	session, ok := b.sessions.Get(message.From.ID)
	if !ok {
		return false
	}
	b.handleWizardStep(ctx, message, session)
	return true
}

// routesToWizard reports whether message belongs to an ad setup.
// Only private chats count so group chatter never lands in the draft.
func (b *Bot) routesToWizard(message *tgbotapi.Message) bool {
	if message.Chat == nil || !message.Chat.IsPrivate() {
		return false
	}
	if !message.IsCommand() {
		return true
	}
	return wizard.IsCommand(message.Command())
}
