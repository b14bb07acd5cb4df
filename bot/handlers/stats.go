package handlers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"linkrelay/database"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/dustin/go-humanize"
)

type stats struct {
	String    string
	UpdatedAt time.Time
}

var (
	currentStats *stats
	statsMu      sync.Mutex
)

var updateInterval = 30 // minutes

var statsMessage = "users: %s\n" +
	"daily users: %s\n\n" +
	"resolved links: %s\n" +
	"daily resolved links: %s\n" +
	"%s\n" +
	"updates every %d minutes"

var (
	statsMessageNoData   = "stats temporarily unavailable"
	statsMessageDisabled = "stats are not available on this instance"
)

func StatsHandler(bot *gotgbot.Bot, ctx *ext.Context) error {
	return reply(bot, ctx, GetStats(), backKeyboard)
}

func UpdateStats() {
	users, err := database.GetUsersCount()
	if err != nil {
		users = 0
	}
	dailyUsers, err := database.GetDailyUserCount()
	if err != nil {
		dailyUsers = 0
	}
	resolutions, err := database.GetResolutionsCount()
	if err != nil {
		resolutions = 0
	}
	dailyResolutions, err := database.GetDailyResolutionsCount()
	if err != nil {
		dailyResolutions = 0
	}
	byExtractor, err := database.GetResolutionsByExtractor()
	if err != nil {
		byExtractor = nil
	}

	var perExtractor strings.Builder
	for _, count := range byExtractor {
		fmt.Fprintf(
			&perExtractor,
			"- %s: %s\n",
			count.ExtractorCodeName,
			HumanizedInt(count.Count),
		)
	}

	currentStats = &stats{
		String: fmt.Sprintf(
			statsMessage,
			HumanizedInt(users),
			HumanizedInt(dailyUsers),
			HumanizedInt(resolutions),
			HumanizedInt(dailyResolutions),
			perExtractor.String(),
			updateInterval,
		),
		UpdatedAt: time.Now(),
	}
}

func HumanizedInt(d int64) string {
	return strings.ReplaceAll(humanize.Comma(d), ",", ".")
}

func GetStats() string {
	if !database.Enabled() {
		return statsMessageDisabled
	}
	statsMu.Lock()
	defer statsMu.Unlock()
	if currentStats == nil {
		UpdateStats()
		if currentStats == nil {
			currentStats = &stats{
				String:    statsMessageNoData,
				UpdatedAt: time.Now(),
			}
		}
	} else if currentStats.UpdatedAt.Add(time.Duration(updateInterval) * time.Minute).Before(time.Now()) {
		UpdateStats()
	}
	return currentStats.String
}
