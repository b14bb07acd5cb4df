package core

import (
	"context"
	"fmt"
	"time"

	"linkrelay/config"
	"linkrelay/database"
	"linkrelay/enums"
	extractors "linkrelay/ext"
	"linkrelay/metrics"
	"linkrelay/models"
	"linkrelay/util"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	noLinkMessage  = "Send a Pixeldrain or RedGIFs link"
	noFilesMessage = "⚠️ No files found."
	noMediaMessage = "⚠️ No media found."

	fallbackHeader = "[API fallback used]\n\n"
)

// Sender is the subset of the bot API used to answer a request.
// *gotgbot.Bot satisfies it.
type Sender interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
	SendChatAction(chatId int64, action string, opts *gotgbot.SendChatActionOpts) (bool, error)
}

// Request is one incoming text message.
type Request struct {
	ID        string
	ChatID    int64
	UserID    int64
	MessageID int64
	Text      string
}

// HandleResolveRequest classifies the message text, resolves the
// matched link and relays the result to the chat.
func HandleResolveRequest(
	ctx context.Context,
	sender Sender,
	request *Request,
) error {
	resolveCtx, err := extractors.CtxByText(request.Text)
	if err != nil {
		return err
	}
	if resolveCtx == nil {
		metrics.RecordMessage("no_link")
		return SendText(sender, request.ChatID, noLinkMessage)
	}
	resolveCtx.Context = ctx

	zap.S().Infof(
		"[%s] request %s from chat %d: %s",
		resolveCtx.Extractor.CodeName,
		request.ID,
		request.ChatID,
		resolveCtx.MatchedContentURL,
	)

	TypingEffect(sender, request.ChatID)

	start := time.Now()
	response, err := extractors.Resolve(resolveCtx)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		metrics.RecordResolutionError(resolveCtx.Extractor.CodeName, time.Since(start))
		metrics.RecordMessage("timeout")
		return util.ErrTimeout
	}
	if err != nil {
		metrics.RecordResolutionError(resolveCtx.Extractor.CodeName, time.Since(start))
		metrics.RecordMessage("error")
		return fmt.Errorf("failed to resolve %s: %w", resolveCtx.MatchedContentURL, err)
	}
	metrics.RecordResolution(
		resolveCtx.Extractor.CodeName,
		string(response.Strategy),
		len(response.Items),
		time.Since(start),
	)

	if response.FallbackPayload != "" && config.Env.ReportAPIFallback {
		err = SendText(sender, request.ChatID, fallbackHeader+response.FallbackPayload)
		if err != nil {
			return err
		}
	}

	reply := FormatReply(resolveCtx.Extractor.Service, response.Items)
	if len(response.Items) == 0 {
		metrics.RecordMessage("empty")
	} else {
		metrics.RecordMessage("resolved")
	}
	storeResolution(request, resolveCtx, response)
	return SendChunks(sender, request.ChatID, reply, config.Env.MessageChunkSize)
}

// FormatReply renders resolved items the way each service expects.
func FormatReply(service enums.Service, items []*models.ResolvedItem) string {
	switch service {
	case enums.ServicePixeldrain:
		if len(items) == 0 {
			return noFilesMessage
		}
		return FormatPixeldrainReply(items)
	case enums.ServiceRedGIFs:
		if len(items) == 0 || items[0].FileURL == "" {
			return noMediaMessage
		}
		return FormatRedGIFsReply(items[0])
	}
	return noMediaMessage
}

func storeResolution(
	request *Request,
	resolveCtx *models.ResolveContext,
	response *models.ExtractorResponse,
) {
	if !database.Enabled() {
		return
	}
	resolution := &models.Resolution{
		ChatID:            request.ChatID,
		UserID:            request.UserID,
		ExtractorCodeName: resolveCtx.Extractor.CodeName,
		ContentID:         resolveCtx.MatchedContentID,
		Strategy:          string(response.Strategy),
		ItemCount:         len(response.Items),
	}
	if len(response.Items) > 0 {
		resolution.Title = response.Items[0].Title
	}
	go func() {
		if err := database.StoreResolution(resolution); err != nil {
			zap.S().Warnf("failed to store resolution %s: %v", request.ID, err)
		}
	}()
}
