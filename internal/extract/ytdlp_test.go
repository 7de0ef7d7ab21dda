package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/format"
	"github.com/redlabs-sc/telegram-media-fetch-bot/internal/media"
)

func TestBuildArgsVideo(t *testing.T) {
	args := buildArgs("https://example.com/v", format.Select(format.ModeVideo), "/work")

	assertContains(t, args, "--no-playlist")
	assertContains(t, args, "--restrict-filenames")
	assertContains(t, args, "--quiet")
	assertContains(t, args, "bv*+ba/b")
	assertContains(t, args, filepath.Join("/work", "%(title).80s.%(ext)s"))

	for _, a := range args {
		if a == "--extract-audio" {
			t.Error("video args must not request audio extraction")
		}
	}
	if args[len(args)-1] != "https://example.com/v" {
		t.Errorf("URL must be the final argument, got %q", args[len(args)-1])
	}
}

func TestBuildArgsAudio(t *testing.T) {
	args := buildArgs("https://example.com/v", format.Select(format.ModeAudio), "/work")

	assertContains(t, args, "bestaudio/best")
	assertContains(t, args, "--extract-audio")
	assertContains(t, args, "mp3")
	assertContains(t, args, "192K")
}

func TestClassify(t *testing.T) {
	runErr := errors.New("exit status 1")

	tests := []struct {
		name     string
		stderr   string
		expected Reason
	}{
		{"Unsupported", "ERROR: Unsupported URL: https://example.com", ReasonUnsupported},
		{"Invalid URL", "'xyz' is not a valid URL", ReasonUnsupported},
		{"Private video", "ERROR: Private video. Sign in if you've been granted access", ReasonAuthRequired},
		{"Login required", "ERROR: login required to access this resource", ReasonAuthRequired},
		{"HTTP error", "ERROR: unable to download video data: HTTP Error 403", ReasonUnreachable},
		{"Unavailable", "ERROR: Video unavailable", ReasonUnreachable},
		{"Unknown failure", "something exploded", ReasonToolFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xerr := classify(context.Background(), runErr, tt.stderr)
			if xerr.Reason != tt.expected {
				t.Errorf("classify(%q).Reason = %q, expected %q", tt.stderr, xerr.Reason, tt.expected)
			}
		})
	}
}

func TestClassifyTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	xerr := classify(ctx, errors.New("signal: killed"), "")
	if xerr.Reason != ReasonTimeout {
		t.Errorf("classify with expired context = %q, expected %q", xerr.Reason, ReasonTimeout)
	}
}

func TestPickArtifactSkipsPartials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip.mp4.part", 10)
	writeFile(t, dir, "clip.mp4.ytdl", 10)
	writeFile(t, dir, "clip.mp4", 2048)

	artifact, err := PickArtifact(dir)
	if err != nil {
		t.Fatalf("PickArtifact() unexpected error: %v", err)
	}
	if filepath.Base(artifact.Path) != "clip.mp4" {
		t.Errorf("picked %q, expected clip.mp4", artifact.Path)
	}
	if artifact.Size != 2048 {
		t.Errorf("Size = %d, expected 2048", artifact.Size)
	}
	if artifact.Kind != media.KindVideo {
		t.Errorf("Kind = %q, expected video", artifact.Kind)
	}
}

func TestPickArtifactDeterministicOrder(t *testing.T) {
	// With several non-partial files the lexicographically first one wins.
	dir := t.TempDir()
	writeFile(t, dir, "b_second.mp4", 10)
	writeFile(t, dir, "a_first.mp3", 10)

	for i := 0; i < 5; i++ {
		artifact, err := PickArtifact(dir)
		if err != nil {
			t.Fatalf("PickArtifact() unexpected error: %v", err)
		}
		if filepath.Base(artifact.Path) != "a_first.mp3" {
			t.Fatalf("picked %q, expected a_first.mp3", artifact.Path)
		}
	}
}

func TestPickArtifactEmptyWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "still-going.mp4.part", 10)

	_, err := PickArtifact(dir)
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("PickArtifact() error = %v, expected *Error", err)
	}
	if xerr.Reason != ReasonNoOutput {
		t.Errorf("Reason = %q, expected %q", xerr.Reason, ReasonNoOutput)
	}
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	for _, a := range args {
		if a == want {
			return
		}
	}
	t.Errorf("args %v missing %q", args, want)
}

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	data := make([]byte, size)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
