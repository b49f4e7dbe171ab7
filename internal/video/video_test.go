package video

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestComposeArgs(t *testing.T) {
	c := NewComposer("")
	args := c.stream(ComposeOptions{
		Background: "bg.jpg",
		Audio:      "audio.mp3",
		Subtitles:  "subtitle.ass",
		Output:     "out.mp4",
		Title:      "Al-Fatiha 1-7",
		FontFile:   "arabic.ttf",
		FontSize:   50,
	}).GetArgs()

	joined := strings.Join(args, " ")
	for _, want := range []string{"-loop 1", "-i bg.jpg", "-i audio.mp3", "-shortest", "libx264", "yuv420p", "subtitles", "drawtext", "out.mp4"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestComposeArgsWithoutTitle(t *testing.T) {
	args := NewComposer("").stream(ComposeOptions{
		Background: "bg.jpg",
		Audio:      "audio.mp3",
		Subtitles:  "subtitle.ass",
		Output:     "out.mp4",
	}).GetArgs()

	if joined := strings.Join(args, " "); strings.Contains(joined, "drawtext") {
		t.Errorf("unexpected drawtext filter: %s", joined)
	}
}

func TestComposeMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := NewComposer("").Compose(context.Background(), ComposeOptions{
		Background: filepath.Join(dir, "missing.jpg"),
		Audio:      filepath.Join(dir, "audio.mp3"),
		Subtitles:  filepath.Join(dir, "subtitle.ass"),
		Output:     filepath.Join(dir, "out.mp4"),
	})
	if err == nil || !strings.Contains(err.Error(), "missing.jpg") {
		t.Errorf("Compose error = %v, want missing input", err)
	}
}
