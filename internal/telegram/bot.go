package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"go.uber.org/zap"
)

// Bot wraps the Telegram API with the transport operations the job pipeline
// needs. It satisfies delivery.Transport.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewBot(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{api: api, logger: logger}, nil
}

// Username returns the authorized bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

func (b *Bot) UpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return b.api.GetUpdatesChan(u)
}

func (b *Bot) StopReceiving() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) SendText(chatID int64, replyTo int, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditText replaces a message's text. Telegram rejects an edit that leaves
// the content unchanged; that is a benign no-op here, not a failure.
func (b *Bot) EditText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := b.api.Send(edit)
	if isNoOpEdit(err) {
		return nil
	}
	return err
}

// isNoOpEdit reports whether the API rejected an edit because the message
// content was unchanged. Telegram surfaces this as a Bad Request.
func isNoOpEdit(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func (b *Bot) DeleteMessage(chatID int64, messageID int) error {
	_, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (b *Bot) SendVideo(chatID int64, path, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	_, err := b.api.Send(video)
	return err
}

func (b *Bot) SendAudio(chatID int64, path, caption string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Caption = caption
	_, err := b.api.Send(audio)
	return err
}

func (b *Bot) SendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := b.api.Send(doc)
	return err
}

// AnswerCallback acknowledges a callback query so the client stops showing
// the loading spinner.
func (b *Bot) AnswerCallback(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.logger.Warn("Error answering callback", zap.Error(err))
	}
}
