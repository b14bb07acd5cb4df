package handlers

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

var helpMessage = "usage:\n" +
	"- send a message containing a link, the first supported link is used\n" +
	"- pixeldrain files: https://pixeldrain.com/u/<id>\n" +
	"- pixeldrain lists: https://pixeldrain.com/l/<id>, one entry per file\n" +
	"- redgifs: https://redgifs.com/watch/<id>\n\n" +
	"pixeldrain links win over redgifs links in the same message.\n\n" +
	"commands:\n" +
	"- /start = welcome message\n" +
	"- /help = this message\n" +
	"- /stats = usage counters\n"

func HelpHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	return reply(bot, ctx, helpMessage, backKeyboard)
}
