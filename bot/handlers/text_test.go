package handlers

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"linkrelay/enums"
	extractors "linkrelay/ext"
	"linkrelay/models"
	"linkrelay/util"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSender) SendMessage(_ int64, text string, _ *gotgbot.SendMessageOpts) (*gotgbot.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
	return &gotgbot.Message{Text: text}, nil
}

func (s *recordingSender) SendChatAction(int64, string, *gotgbot.SendChatActionOpts) (bool, error) {
	return true, nil
}

func useLimiter(t *testing.T, limiter *ChatLimiter) {
	t.Helper()
	previous := Limiter
	t.Cleanup(func() { Limiter = previous })
	Limiter = limiter
}

func useFilesExtractor(t *testing.T, run func(*models.ResolveContext) (*models.ExtractorResponse, error)) {
	t.Helper()
	previous := extractors.List
	t.Cleanup(func() { extractors.List = previous })
	extractors.List = []*models.Extractor{{
		Name:       "Files",
		CodeName:   "files",
		Service:    enums.ServicePixeldrain,
		URLPattern: regexp.MustCompile(`https://files\.test/(?P<id>\w+)`),
		Run:        run,
	}}
}

func chatMessage(text string) *gotgbot.Message {
	return &gotgbot.Message{
		MessageId: 7,
		Chat:      gotgbot.Chat{Id: 100, Type: "private"},
		From:      &gotgbot.User{Id: 100},
		Text:      text,
	}
}

func TestHandleMessageWithoutText(t *testing.T) {
	useLimiter(t, NewChatLimiter(0, 0))

	sender := &recordingSender{}
	msg := chatMessage("")
	msg.Sticker = &gotgbot.Sticker{FileId: "sticker"}
	handleMessage(sender, "123:secret", msg)

	assert.Equal(t, []string{"Send a Pixeldrain or RedGIFs link"}, sender.messages)
}

func TestHandleMessageUnknownCommandWithLink(t *testing.T) {
	useLimiter(t, NewChatLimiter(0, 0))

	sender := &recordingSender{}
	handleMessage(sender, "123:secret", chatMessage("/get https://pixeldrain.com/u/abc123XY"))

	assert.Equal(t, []string{
		"1. ID: abc123XY\nhttps://pixeldrain.com/api/file/abc123XY\nhttps://pixeldrain.com/api/file/abc123XY/thumbnail\n\n",
	}, sender.messages)
}

func TestHandleMessageRateLimited(t *testing.T) {
	useLimiter(t, NewChatLimiter(1, 1))

	sender := &recordingSender{}
	handleMessage(sender, "123:secret", chatMessage("hello"))
	handleMessage(sender, "123:secret", chatMessage("hello"))

	assert.Equal(t, []string{
		"Send a Pixeldrain or RedGIFs link",
		"error occurred when resolving: slow down! too many links, try again in a bit",
	}, sender.messages)
}

func TestHandleMessageResolveError(t *testing.T) {
	useLimiter(t, NewChatLimiter(0, 0))
	useFilesExtractor(t, func(*models.ResolveContext) (*models.ExtractorResponse, error) {
		return nil, util.ErrUnavailable
	})

	sender := &recordingSender{}
	handleMessage(sender, "123:secret", chatMessage("https://files.test/abc"))

	assert.Equal(t, []string{"error occurred when resolving: this content is unavailable"}, sender.messages)
}

func TestHandleMessageTimeout(t *testing.T) {
	useLimiter(t, NewChatLimiter(0, 0))
	useFilesExtractor(t, func(ctx *models.ResolveContext) (*models.ExtractorResponse, error) {
		<-ctx.Ctx().Done()
		return nil, ctx.Ctx().Err()
	})
	previous := requestTimeout
	t.Cleanup(func() { requestTimeout = previous })
	requestTimeout = 10 * time.Millisecond

	sender := &recordingSender{}
	handleMessage(sender, "123:secret", chatMessage("https://files.test/abc"))

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "error occurred when resolving: timeout error when resolving. try again", sender.messages[0])
}
