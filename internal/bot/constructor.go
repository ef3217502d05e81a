package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/ads"
	"autoaccept/internal/stats"
	"autoaccept/internal/storage"
	"autoaccept/internal/wizard"
)

// NewBot creates a new Telegram bot
func NewBot(opts Options, db storage.Storage, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(opts.Token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if !strings.EqualFold(api.Self.UserName, opts.Username) {
		logger.Warn("BOT_USERNAME does not match the token's bot, deep links may point elsewhere",
			zap.String("configured", opts.Username),
			zap.String("actual", api.Self.UserName),
		)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := newBot(api, opts, db, logger)
	b.client = api
	return b, nil
}

func newBot(api Sender, opts Options, db storage.Storage, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		token:       opts.Token,
		username:    opts.Username,
		adminID:     opts.AdminID,
		db:          db,
		ads:         ads.NewService(db),
		stats:       stats.NewService(db),
		sessions:    wizard.NewStore(opts.SessionTTL),
		urlPolicy:   ads.NewURLPolicy(opts.URLPrefixes),
		trackClicks: opts.TrackClicks,
		logger:      logger,
	}
}

// GetAPI returns the bot API
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.client
}

func (b *Bot) isAdmin(userID int64) bool {
	return userID == b.adminID
}
