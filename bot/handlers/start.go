package handlers

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

var startMessage = "send me a Pixeldrain or RedGIFs link " +
	"and i'll reply with direct download and thumbnail links."

var startKeyboard = gotgbot.InlineKeyboardMarkup{
	InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
		{
			{
				Text:         "usage",
				CallbackData: "help",
			},
			{
				Text:         "stats",
				CallbackData: "stats",
			},
		},
		{
			{
				Text:         "extractors",
				CallbackData: "extractors",
			},
		},
	},
}

var backKeyboard = gotgbot.InlineKeyboardMarkup{
	InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
		{
			{
				Text:         "back",
				CallbackData: "start",
			},
		},
	},
}

func StartHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	return reply(bot, ctx, startMessage, startKeyboard)
}

// reply answers a command with a new message and a callback
// by editing the message the button belongs to.
func reply(
	bot *gotgbot.Bot,
	ctx *ext.Context,
	text string,
	keyboard gotgbot.InlineKeyboardMarkup,
) error {
	if ctx.Update.CallbackQuery != nil {
		ctx.CallbackQuery.Answer(bot, nil)
		_, _, err := ctx.EffectiveMessage.EditText(
			bot,
			text,
			&gotgbot.EditMessageTextOpts{
				LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
					IsDisabled: true,
				},
				ReplyMarkup: keyboard,
			},
		)
		return err
	}
	_, err := ctx.EffectiveMessage.Reply(
		bot,
		text,
		&gotgbot.SendMessageOpts{
			LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
				IsDisabled: true,
			},
			ReplyMarkup: &keyboard,
		},
	)
	return err
}
