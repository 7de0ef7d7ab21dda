package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/admission"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/format"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/job"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/metrics"
	"go.uber.org/zap"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

const msgThrottled = "⏱ You already have a download in progress. Please wait a bit and try again."

// Receiver consumes Telegram updates and routes them: commands to usage
// text, URLs to the mode-selection prompt, callbacks into jobs.
type Receiver struct {
	bot    *Bot
	cfg    *config.Config
	gate   admission.Gate
	jobs   *job.Orchestrator
	logger *zap.Logger
}

func NewReceiver(bot *Bot, cfg *config.Config, gate admission.Gate, jobs *job.Orchestrator, logger *zap.Logger) *Receiver {
	return &Receiver{
		bot:    bot,
		cfg:    cfg,
		gate:   gate,
		jobs:   jobs,
		logger: logger.With(zap.String("component", "receiver")),
	}
}

// Start runs the update loop until ctx is cancelled, then waits for
// in-flight handlers (and their cleanup) to finish.
func (r *Receiver) Start(ctx context.Context) {
	updates := r.bot.UpdatesChan(60)

	go func() {
		<-ctx.Done()
		r.bot.StopReceiving()
	}()

	r.logger.Info("Telegram receiver started, waiting for updates...")

	var wg sync.WaitGroup
	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			cb := update.CallbackQuery
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.handleCallback(ctx, cb)
			}()
		case update.Message != nil:
			msg := update.Message
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.handleMessage(msg)
			}()
		}
	}

	wg.Wait()
	r.logger.Info("Telegram receiver stopped")
}

func (r *Receiver) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			r.sendReply(msg.Chat.ID, msg.MessageID, r.usageText())
		default:
			r.sendReply(msg.Chat.ID, msg.MessageID, "Unknown command. Send /help for usage.")
		}
		return
	}

	url := urlRe.FindString(msg.Text)
	if url == "" {
		return
	}

	r.askMode(msg, url)
}

// askMode prompts the user to choose between video and audio for the URL.
// The choice comes back as a callback carrying "<mode>|<url>".
func (r *Receiver) askMode(msg *tgbotapi.Message, url string) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎥 Video", "video|"+url),
			tgbotapi.NewInlineKeyboardButtonData("🎵 Audio", "audio|"+url),
		),
	)

	prompt := tgbotapi.NewMessage(msg.Chat.ID, "What should I download?")
	prompt.ReplyToMessageID = msg.MessageID
	prompt.ReplyMarkup = keyboard
	if _, err := r.bot.api.Send(prompt); err != nil {
		r.logger.Error("Error sending mode prompt", zap.Error(err))
	}
}

func (r *Receiver) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	r.bot.AnswerCallback(cb.ID)

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	modeStr, url, found := strings.Cut(cb.Data, "|")
	if !found {
		return
	}
	mode, ok := format.ParseMode(modeStr)
	if !ok {
		r.logger.Warn("Unknown callback mode", zap.String("data", cb.Data))
		return
	}
	// Callback data round-trips through Telegram; re-check the URL shape
	// before spending a job on it.
	if !urlRe.MatchString(url) {
		r.logger.Warn("Callback carried no usable URL", zap.String("data", cb.Data))
		return
	}

	if !r.gate.TryAdmit(ctx, cb.From.ID) {
		metrics.AdmissionRejected()
		r.logger.Info("Request throttled", zap.Int64("user_id", cb.From.ID))
		r.sendReply(chatID, 0, msgThrottled)
		return
	}

	r.jobs.Run(ctx, job.Request{
		ChatID:  chatID,
		ReplyTo: cb.Message.MessageID,
		UserID:  cb.From.ID,
		URL:     url,
		Mode:    mode,
	})
}

func (r *Receiver) usageText() string {
	return fmt.Sprintf(`👋 Hi! Send me a link and I will fetch the video or audio for you.

How it works:
1. Send a link to a video
2. Pick 🎥 Video or 🎵 Audio
3. Receive the file

⚡ Limits:
• Maximum file size: ~%d MB
• Playlists are not supported`, r.cfg.MaxFileMB)
}

func (r *Receiver) sendReply(chatID int64, replyTo int, text string) {
	if _, err := r.bot.SendText(chatID, replyTo, text); err != nil {
		r.logger.Error("Error sending message", zap.Error(err))
	}
}
