package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	app "omr-bot/internal/application"
	"omr-bot/internal/container"
	"omr-bot/internal/domain/entity"
	"omr-bot/internal/infrastructure/keyfile"
	"omr-bot/internal/infrastructure/vision"
)

// maxFileSize ограничение на размер скачиваемого файла (лимит Bot API 20 МБ)
const maxFileSize = 20 << 20

// sender отправка сообщений, реализуется *tgbotapi.BotAPI
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	send     sender
	users    *app.UserService
	grading  *app.GradingService
	sessions *app.SessionService
	download func(fileID string) ([]byte, error)

	// scans незавершённые распознавания
	scans sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	b := newBot(api, c)
	b.api = api
	b.download = b.downloadFile
	return b, nil
}

func newBot(send sender, c *container.Container) *Bot {
	return &Bot{
		send:     send,
		users:    c.UserService,
		grading:  c.GradingService,
		sessions: c.SessionService,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Сообщения обрабатываются по очереди, в фоне выполняется только распознавание бланка.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	defer b.scans.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Err(err).Int64("user", msg.From.ID).Msg("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	switch {
	case len(msg.Photo) > 0:
		// Получаем файл с максимальным разрешением
		b.handleSheet(ctx, msg, msg.Photo[len(msg.Photo)-1].FileID)
	case msg.Document != nil && isImage(msg.Document.MimeType):
		b.handleSheet(ctx, msg, msg.Document.FileID)
	case user.State == entity.StateAwaitingKey || user.State == entity.StateAwaitingRoster:
		b.handleText(ctx, msg, user)
	default:
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "key":
		_, err = b.users.AwaitKey(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingKey)

	case "showkey":
		b.handleShowKey(ctx, msg, user)

	case "roster":
		_, err = b.users.AwaitRoster(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingRoster)

	case "items":
		b.handleItems(ctx, msg, user)

	case "scan":
		_, err = b.users.AwaitSheet(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingSheet)

	case "stats":
		b.handleStats(ctx, msg, user)

	case "analysis":
		b.handleAnalysis(ctx, msg, user)

	case "newsession":
		if err = b.sessions.Reset(ctx, user.ID, user.ChatID); err == nil {
			b.sendMessage(msg.Chat.ID, msgNewSession)
		}

	case "cancel":
		_, err = b.users.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
	if err != nil {
		log.Err(err).Str("command", msg.Command()).Msg("update user state")
	}
}

func (b *Bot) handleItems(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	n, err := parseItems(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, msgItemsUsage)
		return
	}
	updated, err := b.users.SetActiveItems(ctx, user.ID, user.ChatID, n)
	if err != nil {
		b.sendMessage(msg.Chat.ID, msgItemsUsage)
		return
	}
	b.sendMessage(msg.Chat.ID, itemsAccepted(updated))
}

// parseItems разбирает аргумент /items
func parseItems(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, err
	}
	if n < 1 || n > entity.MaxItems {
		return 0, fmt.Errorf("%w: %d", app.ErrItemsOutOfRange, n)
	}
	return n, nil
}

func (b *Bot) handleShowKey(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	name, key, err := b.grading.KeyFor(ctx, user.ID, user.ChatID)
	if err != nil {
		log.Err(err).Int64("user", user.ID).Msg("get answer key")
		return
	}
	if key == nil {
		b.sendMessage(msg.Chat.ID, msgNoKey)
		return
	}

	var buf bytes.Buffer
	if err := keyfile.FormatAnswerKey(&buf, name, key); err != nil {
		log.Err(err).Int64("user", user.ID).Msg("format answer key")
		return
	}
	b.sendMessage(msg.Chat.ID, buf.String())
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	summary, err := b.sessions.Summary(ctx, user.ID, user.ChatID)
	if err != nil {
		log.Err(err).Int64("user", user.ID).Msg("session summary")
		return
	}
	b.sendMessage(msg.Chat.ID, formatSummary(summary))
}

func (b *Bot) handleAnalysis(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	stats, err := b.sessions.ItemAnalysis(ctx, user.ID, user.ChatID)
	if err != nil {
		log.Err(err).Int64("user", user.ID).Msg("item analysis")
		return
	}
	b.sendMessage(msg.Chat.ID, formatItemAnalysis(stats))
}

// handleText принимает ключ или список группы текстом или файлом
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var body io.Reader = strings.NewReader(msg.Text)
	if msg.Document != nil {
		data, err := b.download(msg.Document.FileID)
		if err != nil {
			log.Err(err).Str("file", msg.Document.FileName).Msg("download document")
			b.sendMessage(msg.Chat.ID, msgBadFile)
			return
		}
		body = bytes.NewReader(data)
	}

	if user.State == entity.StateAwaitingRoster {
		updated, err := b.grading.AcceptRoster(ctx, user.ID, user.ChatID, body)
		if err != nil {
			log.Err(err).Int64("user", user.ID).Msg("parse roster")
			b.sendMessage(msg.Chat.ID, msgBadFile)
			return
		}
		b.sendMessage(msg.Chat.ID, rosterAccepted(updated))
		return
	}

	updated, err := b.grading.AcceptKey(ctx, user.ID, user.ChatID, body)
	switch {
	case errors.Is(err, app.ErrEmptyKey):
		b.sendMessage(msg.Chat.ID, msgEmptyKey)
	case err != nil:
		log.Err(err).Int64("user", user.ID).Msg("parse answer key")
		b.sendMessage(msg.Chat.ID, msgBadFile)
	default:
		b.sendMessage(msg.Chat.ID, keyAccepted(updated))
	}
}

// handleSheet переводит пользователя в обработку и запускает распознавание в фоне
func (b *Bot) handleSheet(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Устанавливаем состояние "обработка"
	if _, err := b.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		log.Err(err).Int64("user", userID).Msg("set processing state")
	}
	b.sendMessage(chatID, msgProcessing)

	b.scans.Add(1)
	go func() {
		defer b.scans.Done()
		b.gradeSheet(ctx, userID, chatID, fileID)
	}()
}

// gradeSheet распознаёт бланк, сохраняет результат в сессию и отправляет разметку
func (b *Bot) gradeSheet(ctx context.Context, userID, chatID int64, fileID string) {
	defer func() {
		// Возвращаем в главное меню, если пользователь не начал другую операцию
		if _, err := b.users.FinishProcessing(ctx, userID, chatID); err != nil {
			log.Err(err).Int64("user", userID).Msg("reset state")
		}
	}()

	imageData, err := b.download(fileID)
	if err != nil {
		log.Err(err).Int64("user", userID).Msg("download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.grading.GradeSheet(ctx, userID, chatID, imageData)
	if err != nil {
		b.sendMessage(chatID, scanErrorMessage(err))
		log.Err(err).Int64("user", userID).Int("bytes", len(imageData)).Msg("grade sheet")
		return
	}

	caption := formatResult(out)
	_, err = b.sessions.Record(ctx, userID, chatID, out)
	switch {
	case errors.Is(err, entity.ErrDuplicateStudent):
		caption += duplicateNote(out.Result.StudentID)
	case err != nil:
		log.Err(err).Int64("user", userID).Msg("record session result")
	}

	log.Info().
		Int64("user", userID).
		Str("student", out.Result.StudentID).
		Int("score", out.Result.Score).
		Int("items", out.Result.ActiveItems).
		Bool("duplicate", errors.Is(err, entity.ErrDuplicateStudent)).
		Msg("sheet graded")

	b.sendPhoto(chatID, out.Result.Annotated, caption)
}

// scanErrorMessage выбирает ответ пользователю по ошибке распознавания
func scanErrorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrMarkersNotFound):
		return msgMarkersNotFound
	case errors.Is(err, vision.ErrVisionDisabled), errors.Is(err, app.ErrScannerNotConfigured):
		return msgVisionDisabled
	default:
		return msgProcessingError
	}
}

func isImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes", file.FileSize)
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

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.send.Send(msg); err != nil {
		log.Err(err).Int64("chat", chatID).Msg("send message")
	}
}

// sendPhoto отправляет размеченный бланк с подписью
func (b *Bot) sendPhoto(chatID int64, jpegData []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "sheet.jpg", Bytes: jpegData})
	photo.Caption = caption
	if _, err := b.send.Send(photo); err != nil {
		log.Err(err).Int64("chat", chatID).Msg("send photo")
	}
}
