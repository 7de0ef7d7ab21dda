package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind classifies an artifact for delivery purposes.
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

// Artifact is the single media file produced by extraction for a job.
// Read-only once produced; its lifetime is bounded by the job workspace.
type Artifact struct {
	Path string
	Size int64
	Kind Kind
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
}

// KindForPath infers the delivery kind from the file extension.
// Anything outside the video and audio sets is sent as a generic document.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExts[ext]:
		return KindVideo
	case audioExts[ext]:
		return KindAudio
	default:
		return KindDocument
	}
}

// HumanSize formats a byte count with binary-prefixed units, two decimal
// places, clamping at GB.
func HumanSize(numBytes int64) string {
	const step = 1024.0
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(numBytes)
	for _, u := range units {
		if size < step || u == units[len(units)-1] {
			return fmt.Sprintf("%.2f %s", size, u)
		}
		size /= step
	}
	return fmt.Sprintf("%.2f GB", size)
}

// Word characters in any script count as safe: `\w` alone is ASCII-only in
// RE2 and would reduce non-Latin titles to the fallback.
var unsafeChars = regexp.MustCompile(`[^\w\s.\p{L}\p{N}-]`)

// Sanitize strips characters unsafe for captions and filenames, trims
// whitespace and caps the result at 80 characters. Empty results fall back
// to "file". Idempotent.
func Sanitize(text string) string {
	text = strings.TrimSpace(unsafeChars.ReplaceAllString(text, ""))
	if runes := []rune(text); len(runes) > 80 {
		text = strings.TrimSpace(string(runes[:80]))
	}
	if text == "" {
		return "file"
	}
	return text
}
