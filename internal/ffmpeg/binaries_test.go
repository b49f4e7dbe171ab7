package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}
	return path
}

func TestResolvePrefersExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := writeFakeBinary(t, dir, "my-ffmpeg")
	ffprobePath := writeFakeBinary(t, dir, "my-ffprobe")
	t.Setenv(envFFmpegPath, filepath.Join(dir, "ignored"))

	paths, err := Resolve(ffmpegPath, ffprobePath)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if paths.FFmpeg != ffmpegPath || paths.FFprobe != ffprobePath {
		t.Errorf("Resolve = %+v, want explicit paths", paths)
	}
}

func TestResolveFallsBackToEnv(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := writeFakeBinary(t, dir, "env-ffmpeg")
	ffprobePath := writeFakeBinary(t, dir, "env-ffprobe")
	t.Setenv(envFFmpegPath, ffmpegPath)
	t.Setenv(envFFprobePath, ffprobePath)

	paths, err := Resolve("", "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if paths.FFmpeg != ffmpegPath || paths.FFprobe != ffprobePath {
		t.Errorf("Resolve = %+v, want env paths", paths)
	}
}

func TestResolveMissingExplicitPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := Resolve(missing, missing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve error = %v, want ErrNotFound", err)
	}
}
