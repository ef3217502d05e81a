package bot

import (
	"fmt"
	"strconv"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/ads"
	"autoaccept/internal/models"
	"autoaccept/internal/stats"
)

// Telegram rejects photo captions longer than this many UTF-16 code units
const maxCaptionLength = 1024

// Callback data prefixes
const (
	callbackStats   = "stats:"
	callbackClearAd = "clearad:"
	callbackAdClick = "adclick:"
)

// statsWindows are the windows offered under /stats, in days
var statsWindows = []struct {
	label string
	days  int
}{
	{"24h", 1},
	{"7 days", 7},
	{"30 days", 30},
	{"All time", stats.AllTimeDays},
}

// sendMessage sends msg and logs a failure
func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Failed to send message", zap.Error(err))
	}
}

// reply sends a plain text message to chatID
func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// answerCallback stops the loading animation on a pressed inline button
func (b *Bot) answerCallback(queryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// sendAd delivers the ad to chatID: photo with caption when it fits,
// otherwise photo followed by the text. Buttons go on the last message.
func (b *Bot) sendAd(chatID int64, ad *ads.Ad, tracked bool) error {
	keyboard, hasButtons := adKeyboard(ad.Buttons, tracked)

	if ad.HasPhoto() {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(ad.PhotoFileID))
		if captionLength(ad.Text) <= maxCaptionLength {
			photo.Caption = ad.Text
			if hasButtons {
				photo.ReplyMarkup = keyboard
			}
			if _, err := b.api.Send(photo); err != nil {
				return fmt.Errorf("failed to send ad photo: %w", err)
			}
			return nil
		}
		if _, err := b.api.Send(photo); err != nil {
			return fmt.Errorf("failed to send ad photo: %w", err)
		}
	}

	msg := tgbotapi.NewMessage(chatID, ad.Text)
	if hasButtons {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send ad text: %w", err)
	}
	return nil
}

// captionLength measures text the way Telegram does, in UTF-16 code units
func captionLength(text string) int {
	return len(utf16.Encode([]rune(text)))
}

// sendWelcome delivers the fixed welcome message with its default buttons
func (b *Bot) sendWelcome(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, msgWelcome)
	msg.ReplyMarkup = b.welcomeKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send welcome: %w", err)
	}
	return nil
}

func (b *Bot) startLink() string {
	return fmt.Sprintf("https://t.me/%s?start=start", b.username)
}

func (b *Bot) privateChatLink() string {
	return fmt.Sprintf("https://t.me/%s", b.username)
}

func (b *Bot) addToGroupLink() string {
	return fmt.Sprintf("https://t.me/%s?startgroup=s&admin=invite_users", b.username)
}

func (b *Bot) addToChannelLink() string {
	return fmt.Sprintf("https://t.me/%s?startchannel=s&admin=invite_users", b.username)
}

// addKeyboard holds the add-to-group and add-to-channel links
func (b *Bot) addKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnAddToGroup, b.addToGroupLink()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnAddToChannel, b.addToChannelLink()),
		),
	)
}

// welcomeKeyboard is addKeyboard preceded by the start link
func (b *Bot) welcomeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnStart, b.startLink()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnAddToGroup, b.addToGroupLink()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnAddToChannel, b.addToChannelLink()),
		),
	)
}

// adKeyboard puts each ad button on its own row. Tracked buttons are
// callbacks carrying the stored button id so presses can be counted;
// untracked ones open the URL directly.
func adKeyboard(buttons []models.AdButton, tracked bool) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(buttons) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, button := range buttons {
		var btn tgbotapi.InlineKeyboardButton
		if tracked {
			btn = tgbotapi.NewInlineKeyboardButtonData(button.Label, callbackAdClick+strconv.FormatInt(button.ID, 10))
		} else {
			btn = tgbotapi.NewInlineKeyboardButtonURL(button.Label, button.URL)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// statsKeyboard offers the report windows
func statsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, window := range statsWindows {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(window.label, callbackStats+strconv.Itoa(window.days)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// clearConfirmKeyboard asks the admin to confirm /clearad
func clearConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, remove", callbackClearAd+"confirm"),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep it", callbackClearAd+"cancel"),
		),
	)
}
