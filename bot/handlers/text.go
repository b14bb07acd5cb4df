package handlers

import (
	"context"
	"time"

	"linkrelay/bot/core"
	"linkrelay/database"
	"linkrelay/util"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// groupAnonymousBot
const anonymousAdminID = 1087968824

var requestTimeout = 2 * time.Minute

// MessageHandler answers every message no command handler took,
// including stickers, media and unknown commands.
func MessageHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	handleMessage(bot, bot.Token, ctx.EffectiveMessage)
	return nil
}

func handleMessage(sender core.Sender, token string, msg *gotgbot.Message) {
	request := &core.Request{
		ID:        uuid.NewString(),
		ChatID:    msg.Chat.Id,
		MessageID: msg.MessageId,
		Text:      msg.Text,
	}
	if msg.From != nil {
		request.UserID = msg.From.Id
	}

	if !Limiter.Allow(request.ChatID) {
		zap.S().Debugf("rate limited chat %d", request.ChatID)
		core.HandleErrorMessage(sender, request.ChatID, token, util.ErrRateLimited)
		return
	}

	if database.Enabled() && request.UserID != 0 && request.UserID != anonymousAdminID {
		if _, err := database.GetUser(request.UserID); err != nil {
			zap.S().Warnf("failed to get user %d: %v", request.UserID, err)
		}
	}

	taskCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := core.HandleResolveRequest(taskCtx, sender, request)
	if err != nil {
		zap.S().Errorf("request %s failed: %v", request.ID, err)
		core.HandleErrorMessage(sender, request.ChatID, token, err)
	}
}
