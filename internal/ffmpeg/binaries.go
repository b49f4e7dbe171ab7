package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const (
	envFFmpegPath  = "TILAWA_FFMPEG_PATH"
	envFFprobePath = "TILAWA_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Resolve picks the ffmpeg and ffprobe executables. Explicit values win,
// then the TILAWA_* environment variables, then PATH.
func Resolve(ffmpegPath, ffprobePath string) (BinaryPaths, error) {
	ffmpegResolved, err := resolveOne("ffmpeg", ffmpegPath, envFFmpegPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobeResolved, err := resolveOne("ffprobe", ffprobePath, envFFprobePath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegResolved, FFprobe: ffprobeResolved}, nil
}

func resolveOne(name, explicit, envVar string) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" {
		candidate = strings.TrimSpace(os.Getenv(envVar))
	}
	if candidate != "" {
		if !fileExists(candidate) {
			return "", fmt.Errorf("%s at %s: %w", name, candidate, ErrNotFound)
		}
		return candidate, nil
	}

	found, err := exec.LookPath(name + executableSuffix())
	if err != nil {
		return "", fmt.Errorf("%s (set %s or install it on PATH): %w", name, envVar, ErrNotFound)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
