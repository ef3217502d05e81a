package bot

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"autoaccept/internal/ads"
	"autoaccept/internal/stats"
	"autoaccept/internal/storage"
	"autoaccept/internal/wizard"
)

// Sender is the part of the Telegram client the handlers talk to.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api         Sender
	client      *tgbotapi.BotAPI // nil in tests; drives polling and webhook setup
	token       string
	username    string
	adminID     int64
	db          storage.Storage
	ads         *ads.Service
	stats       *stats.Service
	sessions    *wizard.Store
	wizardMu    sync.Mutex // serialises wizard steps; webhook updates run concurrently
	urlPolicy   ads.URLPolicy
	trackClicks bool
	logger      *zap.Logger
}

// Options configures a Bot
type Options struct {
	Token       string
	Username    string // public handle used in deep links
	AdminID     int64
	URLPrefixes []string
	TrackClicks bool
	SessionTTL  time.Duration
}
