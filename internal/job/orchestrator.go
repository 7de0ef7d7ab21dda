package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/delivery"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/extract"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/format"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/media"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/metrics"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/workspace"
	"go.uber.org/zap"
)

const (
	msgInProgress     = "⏳ Downloading… this may take a little while."
	msgTooLarge       = "⚠️ File is too large (%s). The limit is %d MB.\nTry downloading it directly instead."
	msgDownloadFailed = "❌ Download failed. Check the link or the resource's availability."
	msgSendFailed     = "❌ Could not send the file. Try another format or link."
	msgInternal       = "❌ Something unexpected went wrong. Please try again later."
)

// Request describes one inbound fetch-and-deliver job.
type Request struct {
	ChatID  int64
	ReplyTo int
	UserID  int64
	URL     string
	Mode    format.Mode
}

// Orchestrator owns the full lifecycle of a job: one status message, one
// workspace, one terminal outcome. Jobs for different requests run
// concurrently and share no state.
type Orchestrator struct {
	cfg        *config.Config
	transport  delivery.Transport
	dispatcher *delivery.Dispatcher
	extractor  extract.Runner
	workspaces *workspace.Manager
	logger     *zap.Logger
}

func NewOrchestrator(
	cfg *config.Config,
	transport delivery.Transport,
	extractor extract.Runner,
	workspaces *workspace.Manager,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		transport:  transport,
		dispatcher: delivery.NewDispatcher(transport, logger),
		extractor:  extractor,
		workspaces: workspaces,
		logger:     logger.With(zap.String("component", "job")),
	}
}

// Run executes a job to its terminal state. The workspace is torn down on
// every exit path, including panics in downstream steps, and exactly one
// terminal status is reported to the user.
func (o *Orchestrator) Run(ctx context.Context, req Request) Outcome {
	jobID := uuid.NewString()
	log := o.logger.With(
		zap.String("job_id", jobID),
		zap.Int64("user_id", req.UserID),
		zap.String("url", req.URL),
		zap.String("mode", string(req.Mode)))

	metrics.JobStarted()
	log.Info("Job admitted", zap.String("status", string(StatusAdmitted)))

	statusID, err := o.transport.SendText(req.ChatID, req.ReplyTo, msgInProgress)
	if err != nil {
		// The job still runs; status updates are best-effort once the
		// transport starts failing.
		log.Warn("Error sending status message", zap.Error(err))
		statusID = 0
	}

	ws, err := o.workspaces.Open()
	if err != nil {
		log.Error("Error opening workspace", zap.Error(err))
		outcome := Outcome{Kind: OutcomeInternalError, Err: err}
		o.finish(req, statusID, outcome, log)
		return outcome
	}
	defer ws.Close()

	outcome := o.runSteps(ctx, req, ws.Path(), log)
	o.finish(req, statusID, outcome, log)
	return outcome
}

// runSteps walks Downloading → SizeChecking → Delivering, converting a panic
// in any step into an InternalError outcome so cleanup and the terminal
// status still happen.
func (o *Orchestrator) runSteps(ctx context.Context, req Request, dir string, log *zap.Logger) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", zap.Any("panic", r))
			outcome = Outcome{Kind: OutcomeInternalError, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	log.Info("Job downloading", zap.String("status", string(StatusDownloading)))
	start := time.Now()
	artifact, err := o.extractor.Extract(ctx, req.URL, format.Select(req.Mode), dir)
	metrics.ExtractionObserved(time.Since(start))
	if err != nil {
		var xerr *extract.Error
		if errors.As(err, &xerr) {
			return Outcome{Kind: OutcomeExtractionFailed, Err: err}
		}
		return Outcome{Kind: OutcomeInternalError, Err: err}
	}

	log.Info("Job size checking",
		zap.String("status", string(StatusSizeChecking)),
		zap.Int64("size", artifact.Size))
	verdict := media.CheckSize(artifact, o.cfg.MaxFileBytes())
	if !verdict.Pass {
		return Outcome{Kind: OutcomeTooLarge, Size: verdict.Actual}
	}

	log.Info("Job delivering", zap.String("status", string(StatusDelivering)))
	if err := o.dispatcher.Deliver(req.ChatID, artifact, req.Mode); err != nil {
		return Outcome{Kind: OutcomeDeliveryFailed, Err: err}
	}

	return Outcome{Kind: OutcomeDelivered, Size: artifact.Size}
}

// finish reports the terminal state through the single status line: removed
// on success, edited with the outcome text otherwise. Root causes are logged
// here and never shown to the user.
func (o *Orchestrator) finish(req Request, statusID int, outcome Outcome, log *zap.Logger) {
	metrics.JobFinished(string(outcome.Kind))
	log.Info("Job finished",
		zap.String("status", string(outcome.TerminalStatus())),
		zap.String("outcome", string(outcome.Kind)),
		zap.Error(outcome.Err))

	if statusID == 0 {
		return
	}

	var err error
	switch outcome.Kind {
	case OutcomeDelivered:
		err = o.transport.DeleteMessage(req.ChatID, statusID)
	case OutcomeTooLarge:
		text := fmt.Sprintf(msgTooLarge, media.HumanSize(outcome.Size), o.cfg.MaxFileMB)
		err = o.transport.EditText(req.ChatID, statusID, text)
	case OutcomeExtractionFailed:
		err = o.transport.EditText(req.ChatID, statusID, msgDownloadFailed)
	case OutcomeDeliveryFailed:
		err = o.transport.EditText(req.ChatID, statusID, msgSendFailed)
	default:
		err = o.transport.EditText(req.ChatID, statusID, msgInternal)
	}
	if err != nil {
		log.Warn("Error updating status message", zap.Error(err))
	}
}
