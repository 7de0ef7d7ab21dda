package delivery

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/format"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/media"
	"go.uber.org/zap"
)

// Transport is the messaging surface the job pipeline needs. The concrete
// Telegram adapter lives in internal/telegram; tests use fakes.
type Transport interface {
	// SendText sends a reply and returns the sent message ID.
	SendText(chatID int64, replyTo int, text string) (int, error)
	// EditText replaces a previously sent message's text. A no-op edit
	// (content unchanged) must not be reported as an error.
	EditText(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error
	SendVideo(chatID int64, path, caption string) error
	SendAudio(chatID int64, path, caption string) error
	SendDocument(chatID int64, path, caption string) error
}

// Dispatcher classifies an artifact and sends it through the matching
// transport operation.
type Dispatcher struct {
	transport Transport
	logger    *zap.Logger
}

func NewDispatcher(transport Transport, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		logger:    logger.With(zap.String("component", "delivery")),
	}
}

// Deliver sends the artifact to the chat. An audio-mode job always routes
// through the audio path regardless of the container extension. Transport
// failure is terminal; the same send is never re-attempted.
func (d *Dispatcher) Deliver(chatID int64, artifact media.Artifact, mode format.Mode) error {
	kind := artifact.Kind
	if mode == format.ModeAudio {
		kind = media.KindAudio
	}
	caption := Caption(artifact)

	d.logger.Info("Delivering artifact",
		zap.Int64("chat_id", chatID),
		zap.String("kind", string(kind)),
		zap.Int64("size", artifact.Size))

	switch kind {
	case media.KindVideo:
		return d.transport.SendVideo(chatID, artifact.Path, caption)
	case media.KindAudio:
		return d.transport.SendAudio(chatID, artifact.Path, caption)
	default:
		return d.transport.SendDocument(chatID, artifact.Path, caption)
	}
}

// Caption builds the user-visible caption: sanitized base name plus a
// human-readable size.
func Caption(artifact media.Artifact) string {
	base := filepath.Base(artifact.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s (%s)", media.Sanitize(base), media.HumanSize(artifact.Size))
}
