package handlers

import (
	"strings"

	"linkrelay/config"
	extractors "linkrelay/ext"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

func ExtractorsHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	return reply(bot, ctx, extractorsMessage(), backKeyboard)
}

func extractorsMessage() string {
	extractorNames := make([]string, 0, len(extractors.List))
	for _, extractor := range extractors.List {
		if config.IsExtractorDisabled(extractor.CodeName) {
			extractorNames = append(extractorNames, extractor.Name+" (disabled)")
		} else {
			extractorNames = append(extractorNames, extractor.Name)
		}
	}
	return "available extractors:\n" + strings.Join(extractorNames, ", ")
}
