package core

import (
	"fmt"
	"strings"

	"linkrelay/models"
	"linkrelay/util"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/pkg/errors"
)

func FormatPixeldrainReply(items []*models.ResolvedItem) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(
			&sb,
			"%d. ID: %s\n%s\n%s\n\n",
			i+1,
			item.ID,
			item.FileURL,
			item.ThumbnailURL,
		)
	}
	return sb.String()
}

func FormatRedGIFsReply(item *models.ResolvedItem) string {
	return item.FileURL + "\n" + item.ThumbnailURL
}

// SendChunks sends text as consecutive messages of at most size bytes.
func SendChunks(
	sender Sender,
	chatID int64,
	text string,
	size int,
) error {
	for _, chunk := range util.ChunkText(text, size) {
		if err := SendText(sender, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func SendText(
	sender Sender,
	chatID int64,
	text string,
) error {
	_, err := sender.SendMessage(
		chatID,
		text,
		&gotgbot.SendMessageOpts{
			LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
				IsDisabled: true,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func TypingEffect(
	sender Sender,
	chatID int64,
) {
	sender.SendChatAction(
		chatID,
		"typing",
		nil,
	)
}

// ErrorMessage turns err into text safe to show in a chat.
func ErrorMessage(err error, token string) string {
	currentError := err
	for currentError != nil {
		var botError *util.Error
		if errors.As(currentError, &botError) {
			return fmt.Sprintf(
				"error occurred when resolving: %s",
				botError.Error(),
			)
		}
		currentError = errors.Unwrap(currentError)
	}

	lastError := util.GetLastError(err)
	errorMessage := fmt.Sprintf(
		"error occurred when resolving: %s",
		lastError.Error(),
	)
	if token != "" && strings.Contains(errorMessage, token) {
		errorMessage = "telegram related error, probably connection issue"
	}
	return errorMessage
}

func HandleErrorMessage(
	sender Sender,
	chatID int64,
	token string,
	err error,
) {
	SendText(sender, chatID, ErrorMessage(err, token))
}
