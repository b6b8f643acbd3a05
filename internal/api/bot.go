package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scroll-stitch/internal/container"
	"scroll-stitch/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я склеиваю скриншоты прокрутки в одну длинную картинку.

📸 Начните съёмку, присылайте скриншоты по порядку прокрутки, а в конце заберите результат.

📋 Команды:
/scroll — склейка вертикальной прокрутки
/scroll_h — склейка горизонтальной прокрутки
/up — следующие кадры выше (левее) первого
/down — следующие кадры ниже (правее) первого
/done — собрать изображение
/help — справка
/cancel — отменить съёмку`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /scroll (или /scroll_h для горизонтальной прокрутки)
2️⃣ Присылайте скриншоты одного размера, соседние кадры должны перекрываться
3️⃣ Отправьте /done и получите PNG

💡 Рекомендации:
• Прокручивайте не больше чем на полэкрана за кадр
• Присылайте скриншоты файлом, чтобы Telegram их не сжимал
• Если прокручиваете вверх, скажите об этом командой /up`

	msgStarted         = "📜 Съёмка началась (%s). Присылайте скриншоты."
	msgAlreadyActive   = "⚠️ Съёмка уже идёт. Отправьте /done или /cancel."
	msgNoSession       = "📜 Сначала начните съёмку командой /scroll."
	msgHintLeading     = "⬆️ Жду кадры выше (левее) первого."
	msgHintTrailing    = "⬇️ Жду кадры ниже (правее) первого."
	msgCancelled       = "❌ Съёмка отменена. Отправьте /scroll для новой."
	msgSendScreenshot  = "📸 Пришлите скриншот или команду. /help — справка."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgAppended        = "✅ Кадр добавлен. Выше: %d px, ниже: %d px."
	msgCovered         = "👌 Эта область уже есть в склейке."
	msgUnchanged       = "🔁 Вид не сдвинулся, прокрутите дальше."
	msgNoMatch         = "🤷 Не нашёл, куда приклеить кадр. Проверьте, что он перекрывается с предыдущим."
	msgNoFeatures      = "🫥 На кадре не за что зацепиться. Пропускаю."
	msgWrongSize       = "📐 Размер кадра отличается от первого. Пропускаю."
	msgNothingToExport = "🈳 Пока нечего собирать: пришлите хотя бы один кадр."
	msgExporting       = "⏳ Собираю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте ещё раз."
)

// Bot представляет Telegram-бота
type Bot struct {
	api *tgbotapi.BotAPI
	app *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, app *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("authorized", "account", api.Self.UserName)

	return &Bot{
		api: api,
		app: app,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Скриншот фото или файлом
	if fileID, ok := imageFileID(msg); ok {
		b.handleFrame(ctx, msg, fileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendScreenshot)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.app.UserService.SetState(ctx, userID, chatID, entity.StateMainMenu); err != nil {
			slog.Error("reset user", "chat_id", chatID, "error", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "scroll":
		b.startCapture(ctx, msg, entity.Vertical)

	case "scroll_h":
		b.startCapture(ctx, msg, entity.Horizontal)

	case "up":
		b.setHint(ctx, msg, entity.Leading, msgHintLeading)

	case "down":
		b.setHint(ctx, msg, entity.Trailing, msgHintTrailing)

	case "done":
		b.finish(ctx, msg)

	case "cancel":
		if _, err := b.app.CaptureService.Cancel(ctx, userID, chatID); err != nil {
			slog.Error("cancel capture", "chat_id", chatID, "error", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) startCapture(ctx context.Context, msg *tgbotapi.Message, direction entity.ScrollDirection) {
	_, err := b.app.CaptureService.Start(ctx, msg.From.ID, msg.Chat.ID, direction)
	switch {
	case errors.Is(err, entity.ErrSessionActive):
		b.sendMessage(msg.Chat.ID, msgAlreadyActive)
	case err != nil:
		slog.Error("start capture", "chat_id", msg.Chat.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
	default:
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgStarted, directionName(direction)))
	}
}

func (b *Bot) setHint(ctx context.Context, msg *tgbotapi.Message, hint entity.Edge, reply string) {
	_, err := b.app.CaptureService.SetHint(ctx, msg.From.ID, hint)
	switch {
	case errors.Is(err, entity.ErrNoSession):
		b.sendMessage(msg.Chat.ID, msgNoSession)
	case err != nil:
		slog.Error("set hint", "chat_id", msg.Chat.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
	default:
		b.sendMessage(msg.Chat.ID, reply)
	}
}

// handleFrame передаёт скриншот в сессию склейки и отвечает превью добавленной области
func (b *Bot) handleFrame(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	chatID := msg.Chat.ID
	if !b.app.CaptureService.Active(msg.From.ID) {
		b.sendMessage(chatID, msgNoSession)
		return
	}

	data, err := b.downloadFile(fileID)
	if err != nil {
		slog.Error("download frame", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.app.CaptureService.Submit(ctx, msg.From.ID, data, 0)
	switch {
	case errors.Is(err, entity.ErrNoSession):
		b.sendMessage(chatID, msgNoSession)
		return
	case errors.Is(err, entity.ErrNoReliableMatch):
		b.sendMessage(chatID, msgNoMatch)
		return
	case errors.Is(err, entity.ErrNoFeatures):
		b.sendMessage(chatID, msgNoFeatures)
		return
	case errors.Is(err, entity.ErrInvalidDimensions):
		b.sendMessage(chatID, msgWrongSize)
		return
	case err != nil:
		slog.Error("submit frame", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	slog.Info("frame handled",
		"chat_id", chatID,
		"appended", out.Placement.Appended,
		"unchanged", out.Placement.Unchanged,
		"edge", out.Placement.Target,
		"leading", out.Leading,
		"trailing", out.Trailing,
	)

	switch {
	case out.Placement.Unchanged:
		b.sendMessage(chatID, msgUnchanged)
	case !out.Placement.Appended:
		b.sendMessage(chatID, msgCovered)
	case len(out.Thumbnail) > 0:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "frame.png", Bytes: out.Thumbnail})
		photo.Caption = fmt.Sprintf(msgAppended, out.Leading, out.Trailing)
		if _, err := b.api.Send(photo); err != nil {
			slog.Error("send thumbnail", "chat_id", chatID, "error", err)
		}
	default:
		b.sendMessage(chatID, fmt.Sprintf(msgAppended, out.Leading, out.Trailing))
	}
}

func (b *Bot) finish(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.sendMessage(chatID, msgExporting)

	data, err := b.app.CaptureService.Finish(ctx, msg.From.ID, chatID)
	switch {
	case errors.Is(err, entity.ErrNoSession):
		b.sendMessage(chatID, msgNoSession)
		return
	case errors.Is(err, entity.ErrExportEmpty):
		b.sendMessage(chatID, msgNothingToExport)
		return
	case err != nil:
		slog.Error("finish capture", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "scroll.png", Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		slog.Error("send result", "chat_id", chatID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
	}
}

// imageFileID находит файл изображения в сообщении: фото максимального размера или документ-картинку
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func directionName(d entity.ScrollDirection) string {
	if d == entity.Horizontal {
		return "горизонтально"
	}
	return "вертикально"
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send message", "chat_id", chatID, "error", err)
	}
}
