package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"scroll-stitch/internal/domain/entity"
)

func TestImageFileID(t *testing.T) {
	id, ok := imageFileID(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}})
	require.True(t, ok)
	require.Equal(t, "large", id)

	id, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc", MimeType: "image/png"}})
	require.True(t, ok)
	require.Equal(t, "doc", id)

	_, ok = imageFileID(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "pdf", MimeType: "application/pdf"}})
	require.False(t, ok)

	_, ok = imageFileID(&tgbotapi.Message{Text: "hello"})
	require.False(t, ok)
}

func TestDirectionName(t *testing.T) {
	require.Equal(t, "вертикально", directionName(entity.Vertical))
	require.Equal(t, "горизонтально", directionName(entity.Horizontal))
}
