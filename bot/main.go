package bot

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	botHandlers "linkrelay/bot/handlers"
	"linkrelay/config"
	"linkrelay/models"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
	"go.uber.org/zap"
)

// WebhookPrefix is the path prefix Telegram posts updates to.
// The bot token follows it.
const WebhookPrefix = "/webhook/"

var allowedUpdates = []string{
	"message",
	"callback_query",
}

type Instance struct {
	Bot     *gotgbot.Bot
	Updater *ext.Updater

	cfg *models.EnvConfig
}

func New(cfg *models.EnvConfig) (*Instance, error) {
	b, err := gotgbot.NewBot(cfg.BotToken, &gotgbot.BotOpts{
		BotClient: NewBotClient(cfg.BotAPIURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(_ *gotgbot.Bot, _ *ext.Context, err error) ext.DispatcherAction {
			zap.S().Errorf("an error occurred while handling update: %v", err)
			return ext.DispatcherActionNoop
		},
		Panic: func(_ *gotgbot.Bot, _ *ext.Context, r any) {
			zap.S().Errorf(
				"panic occurred while handling update: %v\n%s",
				r,
				debug.Stack(),
			)
		},
		MaxRoutines: cfg.ConcurrentUpdates,
	})
	botHandlers.ResetLimiter()
	registerHandlers(dispatcher)

	updater := ext.NewUpdater(dispatcher, nil)
	if cfg.Mode == config.ModeWebhook {
		err = updater.AddWebhook(b, b.Token, &ext.AddWebhookOpts{
			SecretToken: cfg.WebhookSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add webhook: %w", err)
		}
	}
	return &Instance{
		Bot:     b,
		Updater: updater,
		cfg:     cfg,
	}, nil
}

// WebhookHandler serves updates posted to WebhookPrefix + token.
func (i *Instance) WebhookHandler() http.Handler {
	return i.Updater.GetHandlerFunc(WebhookPrefix)
}

// Run receives updates until ctx is cancelled.
func (i *Instance) Run(ctx context.Context) error {
	switch i.cfg.Mode {
	case config.ModePolling:
		zap.S().Debugf("starting updates polling. allowed updates: %v", allowedUpdates)
		err := i.Updater.StartPolling(i.Bot, &ext.PollingOpts{
			DropPendingUpdates: true,
			GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
				Timeout: 9,
				RequestOpts: &gotgbot.RequestOpts{
					Timeout: time.Second * 10,
				},
				AllowedUpdates: allowedUpdates,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to start polling: %w", err)
		}
	default:
		if err := i.setWebhook(); err != nil {
			return err
		}
	}
	zap.S().Infof("bot started in %s mode with username: %s", i.cfg.Mode, i.Bot.Username)
	go botHandlers.Limiter.RunCleanup(ctx, botHandlers.LimiterCleanupInterval)

	<-ctx.Done()
	if err := i.Updater.Stop(); err != nil {
		return fmt.Errorf("failed to stop updater: %w", err)
	}
	return nil
}

func (i *Instance) setWebhook() error {
	if i.cfg.WebhookURL == "" {
		zap.S().Info("WEBHOOK_URL is not set, expecting the webhook to be registered already")
		return nil
	}
	webhookURL := strings.TrimSuffix(i.cfg.WebhookURL, "/") + WebhookPrefix + i.Bot.Token
	_, err := i.Bot.SetWebhook(webhookURL, &gotgbot.SetWebhookOpts{
		AllowedUpdates: allowedUpdates,
		SecretToken:    i.cfg.WebhookSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

func registerHandlers(dispatcher *ext.Dispatcher) {
	zap.S().Debug("registering handlers")
	dispatcher.AddHandlerToGroup(handlers.NewMessage(
		message.All,
		botHandlers.WhitelistHandler,
	), -1)
	dispatcher.AddHandlerToGroup(handlers.NewCallback(
		callbackquery.All,
		botHandlers.WhitelistHandler,
	), -1)
	for _, handler := range updateHandlers() {
		dispatcher.AddHandler(handler)
	}
}

// updateHandlers returns the main group handlers in match order.
func updateHandlers() []ext.Handler {
	return []ext.Handler{
		handlers.NewCommand(
			"start",
			botHandlers.StartHandler,
		),
		handlers.NewCommand(
			"help",
			botHandlers.HelpHandler,
		),
		handlers.NewCommand(
			"stats",
			botHandlers.StatsHandler,
		),
		handlers.NewCallback(
			callbackquery.Equal("start"),
			botHandlers.StartHandler,
		),
		handlers.NewCallback(
			callbackquery.Equal("help"),
			botHandlers.HelpHandler,
		),
		handlers.NewCallback(
			callbackquery.Equal("stats"),
			botHandlers.StatsHandler,
		),
		handlers.NewCallback(
			callbackquery.Equal("extractors"),
			botHandlers.ExtractorsHandler,
		),
		// last, so every other message still gets an answer
		handlers.NewMessage(
			message.All,
			botHandlers.MessageHandler,
		),
	}
}
