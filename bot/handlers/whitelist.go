package handlers

import (
	"slices"

	"linkrelay/config"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

func WhitelistHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	var effectiveID int64
	switch {
	case ctx.EffectiveChat != nil:
		effectiveID = ctx.EffectiveChat.Id
	case ctx.EffectiveUser != nil:
		effectiveID = ctx.EffectiveUser.Id
	default:
		return ext.ContinueGroups
	}
	if !IsWhitelisted(effectiveID) {
		if ctx.CallbackQuery != nil {
			ctx.CallbackQuery.Answer(bot, nil)
		}
		return ext.EndGroups
	}
	return ext.ContinueGroups
}

// IsWhitelisted reports whether the chat may use the bot.
// An empty whitelist allows everyone.
func IsWhitelisted(chatID int64) bool {
	if len(config.Env.Whitelist) == 0 {
		return true
	}
	return slices.Contains(config.Env.Whitelist, chatID)
}
