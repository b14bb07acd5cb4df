package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"go.uber.org/zap"
)

type BotClient struct {
	gotgbot.BotClient
}

func (b BotClient) RequestWithContext(
	ctx context.Context,
	token string,
	method string,
	params map[string]string,
	data map[string]gotgbot.FileReader,
	opts *gotgbot.RequestOpts,
) (json.RawMessage, error) {
	if strings.HasPrefix(method, "send") || method == "copyMessage" {
		params["allow_sending_without_reply"] = "true"
	}
	val, err := b.BotClient.RequestWithContext(ctx, token, method, params, data, opts)
	if err != nil {
		zap.S().Debugf("bot api %s failed: %v", method, err)
		return nil, err
	}
	return val, nil
}

func NewBotClient(botAPIURL string) BotClient {
	if botAPIURL == "" {
		zap.S().Debug("BOT_API_URL is not provided, using default")
		botAPIURL = gotgbot.DefaultAPIURL
	}
	return BotClient{
		BotClient: &gotgbot.BaseBotClient{
			Client: http.Client{
				Transport: &http.Transport{
					// avoid using proxy for telegram
					Proxy: func(r *http.Request) (*url.URL, error) {
						return nil, nil
					},
				},
			},
			UseTestEnvironment: false,
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: time.Minute,
				APIURL:  botAPIURL,
			},
		},
	}
}
