package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/format"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/media"
	"go.uber.org/zap"
)

// Runner is the extraction engine contract: download the resource at url
// into dir according to the directive and return the produced artifact.
type Runner interface {
	Extract(ctx context.Context, url string, d format.Directive, dir string) (media.Artifact, error)
}

// YtDlp invokes the yt-dlp binary as a subprocess.
type YtDlp struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewYtDlp(cfg *config.Config, logger *zap.Logger) *YtDlp {
	return &YtDlp{
		binary:  cfg.YtDlpPath,
		timeout: time.Duration(cfg.ExtractTimeoutSec) * time.Second,
		logger:  logger.With(zap.String("component", "ytdlp")),
	}
}

func (y *YtDlp) Extract(ctx context.Context, url string, d format.Directive, dir string) (media.Artifact, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	args := buildArgs(url, d, dir)
	cmd := exec.CommandContext(ctx, y.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	if runErr != nil {
		xerr := classify(ctx, runErr, stderr.String())
		y.logger.Warn("yt-dlp run failed",
			zap.String("url", url),
			zap.Duration("duration", duration),
			zap.String("reason", string(xerr.Reason)),
			zap.String("stderr", stderr.String()))
		return media.Artifact{}, xerr
	}

	y.logger.Debug("yt-dlp run completed",
		zap.String("url", url),
		zap.Duration("duration", duration))

	return PickArtifact(dir)
}

// buildArgs assembles the yt-dlp invocation: single item only, suppressed
// diagnostic chatter, continue on recoverable errors, filesystem-safe
// filenames bounded to 80 characters of title.
func buildArgs(url string, d format.Directive, dir string) []string {
	args := []string{
		"-o", filepath.Join(dir, d.OutputTemplate),
		"--restrict-filenames",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--ignore-errors",
		"-f", d.Format,
	}
	if d.ExtractAudio {
		args = append(args,
			"--extract-audio",
			"--audio-format", d.AudioCodec,
			"--audio-quality", d.AudioQuality,
		)
	}
	return append(args, url)
}

func classify(ctx context.Context, runErr error, stderr string) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Reason: ReasonTimeout, Detail: "extraction timed out"}
	}

	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "is not a valid url"):
		return &Error{Reason: ReasonUnsupported, Detail: stderr}
	case strings.Contains(lower, "sign in"),
		strings.Contains(lower, "login required"),
		strings.Contains(lower, "private video"):
		return &Error{Reason: ReasonAuthRequired, Detail: stderr}
	case strings.Contains(lower, "unable to download"),
		strings.Contains(lower, "http error"),
		strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "name or service not known"):
		return &Error{Reason: ReasonUnreachable, Detail: stderr}
	default:
		return &Error{Reason: ReasonToolFailure, Detail: stderr + ": " + runErr.Error()}
	}
}

// partialSuffixes mark files the tool is still writing.
var partialSuffixes = []string{".part", ".ytdl"}

// PickArtifact selects the produced file from the workspace: the first
// non-partial regular file in lexicographic filename order (os.ReadDir
// returns entries sorted by name, so the tie-break is stable).
func PickArtifact(dir string) (media.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return media.Artifact{}, &Error{Reason: ReasonNoOutput, Detail: "read workspace: " + err.Error()}
	}

	for _, entry := range entries {
		if entry.IsDir() || isPartial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		return media.Artifact{
			Path: path,
			Size: info.Size(),
			Kind: media.KindForPath(path),
		}, nil
	}

	return media.Artifact{}, &Error{Reason: ReasonNoOutput, Detail: "no output file produced"}
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
